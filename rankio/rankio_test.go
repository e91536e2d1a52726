package rankio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A int
	B string
}

func TestSingleBroadcastRoundTrips(t *testing.T) {
	s := NewSingle()
	in := payload{A: 7, B: "hi"}
	var out payload
	require.NoError(t, s.Broadcast(in, &out))
	assert.Equal(t, in, out)
}

func TestSingleBarrierNoop(t *testing.T) {
	s := NewSingle()
	require.NoError(t, s.Barrier("any"))
}

func TestSingleAbortRecordsReason(t *testing.T) {
	s := NewSingle()
	assert.Nil(t, s.Aborted())
	s.Abort(assert.AnError)
	assert.Equal(t, assert.AnError, s.Aborted())
}

func TestSingleRankAndSize(t *testing.T) {
	s := NewSingle()
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, 1, s.Size())
}

func TestProcessGroupBroadcast(t *testing.T) {
	dir := t.TempDir()
	master := NewProcessGroup(0, 2, dir)
	master.poll = time.Millisecond
	worker := NewProcessGroup(1, 2, dir)
	worker.poll = time.Millisecond

	in := payload{A: 42, B: "mpi"}
	var wg sync.WaitGroup
	var workerOut payload
	var workerErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		workerErr = worker.Broadcast(in, &workerOut)
	}()

	var masterOut payload
	require.NoError(t, master.Broadcast(in, &masterOut))
	wg.Wait()
	require.NoError(t, workerErr)
	assert.Equal(t, in, masterOut)
	assert.Equal(t, in, workerOut)
}

func TestProcessGroupBarrierAllRanksMustArrive(t *testing.T) {
	dir := t.TempDir()
	size := 3
	groups := make([]*ProcessGroup, size)
	for i := 0; i < size; i++ {
		groups[i] = NewProcessGroup(i, size, dir)
		groups[i].poll = time.Millisecond
	}

	var wg sync.WaitGroup
	errs := make([]error, size)
	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = groups[i].Barrier("phase1")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestProcessGroupAbortUnblocksWaiters(t *testing.T) {
	dir := t.TempDir()
	size := 2
	master := NewProcessGroup(0, size, dir)
	master.poll = time.Millisecond
	worker := NewProcessGroup(1, size, dir)
	worker.poll = time.Millisecond

	var wg sync.WaitGroup
	var workerErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		workerErr = worker.Barrier("stuck")
	}()

	time.Sleep(5 * time.Millisecond)
	master.Abort(assert.AnError)
	wg.Wait()
	require.Error(t, workerErr)
}

func TestProcessGroupFinalizeRemovesMarkers(t *testing.T) {
	dir := t.TempDir()
	g := NewProcessGroup(0, 1, dir)
	g.poll = time.Millisecond
	require.NoError(t, g.Barrier("done"))
	g.Finalize()
	matches, _ := filepath.Glob(filepath.Join(dir, "barrier.*"))
	assert.Empty(t, matches)
	_, err := os.Stat(g.broadcastPath())
	assert.True(t, os.IsNotExist(err))
}
