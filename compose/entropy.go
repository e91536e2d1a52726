package compose

import (
	"math"
	"math/rand"
	"sort"

	"github.com/liang2508/gmx-mmpbsa/energy"
)

// boltzmann is the gas constant in kcal/(mol*K).
const boltzmann = 0.0019872041

// reliabilityThreshold is the Egas standard-deviation ceiling (kcal/mol)
// above which IE/C2 results are flagged unreliable.
const reliabilityThreshold = 3.6

// EntropyResult holds a single -TΔS estimate plus the diagnostics needed
// to judge whether it is trustworthy.
type EntropyResult struct {
	NegTDeltaS float64
	Sigma      float64
	Reliable   bool
	WindowSize int
	CILow      float64 // valid only for C2
	CIHigh     float64 // valid only for C2
}

// SegmentWindowSize converts an ie_segment/c2_segment percentage into a
// frame count: ceil(totalFrames * segmentPercent / 100).
func SegmentWindowSize(totalFrames int, segmentPercent float64) int {
	n := int(math.Ceil(float64(totalFrames) * segmentPercent / 100.0))
	if n < 1 {
		n = 1
	}
	if n > totalFrames {
		n = totalFrames
	}
	return n
}

// InteractionEntropy computes -TΔS_IE over the trailing window of an
// interaction-energy (Egas) vector:
//
//	ΔE_i = mean(Egas) - Egas_i
//	-TΔS_IE = kT * ln( mean_i( exp(ΔE_i / kT) ) )
func InteractionEntropy(egas energy.Vector, windowSize int, temperature float64) EntropyResult {
	window := egas.Tail(windowSize)
	if len(window) == 0 {
		return EntropyResult{}
	}
	kT := boltzmann * temperature
	avg := window.Mean()
	var sumExp float64
	for _, e := range window {
		sumExp += math.Exp((avg - e) / kT)
	}
	meanExp := sumExp / float64(len(window))
	sigma := window.Stdev()
	return EntropyResult{
		NegTDeltaS: kT * math.Log(meanExp),
		Sigma:      sigma,
		Reliable:   sigma <= reliabilityThreshold,
		WindowSize: len(window),
	}
}

// c2BootstrapSamples is the number of resamples used to estimate the C2
// 95% CI. Fixed rather than user-tunable: the upstream tool exposes
// no equivalent knob, so there is nothing in the configuration schema to
// thread it through.
const c2BootstrapSamples = 2000

// C2Entropy computes -TΔS_C2 = σ²/(2kT) over the trailing window of an
// interaction-energy vector, with a bootstrap-resampled 95% confidence
// interval on the estimate. Sigma is the window's own sample stdev; no
// bootstrap stdev of the estimate is computed.
func C2Entropy(egas energy.Vector, windowSize int, temperature float64, seed int64) EntropyResult {
	window := egas.Tail(windowSize)
	if len(window) == 0 {
		return EntropyResult{}
	}
	kT := boltzmann * temperature
	variance := window.Variance()
	sigma := window.Stdev()
	result := EntropyResult{
		NegTDeltaS: variance / (2 * kT),
		Sigma:      sigma,
		Reliable:   sigma <= reliabilityThreshold,
		WindowSize: len(window),
	}

	n := len(window)
	if n < 2 {
		result.CILow, result.CIHigh = result.NegTDeltaS, result.NegTDeltaS
		return result
	}
	rng := rand.New(rand.NewSource(seed))
	samples := make([]float64, c2BootstrapSamples)
	for b := 0; b < c2BootstrapSamples; b++ {
		var sum, sumSq float64
		for i := 0; i < n; i++ {
			v := window[rng.Intn(n)]
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(n)
		varb := sumSq/float64(n) - mean*mean
		if varb < 0 {
			varb = 0
		}
		samples[b] = varb / (2 * kT)
	}
	sort.Float64s(samples)
	loIdx := int(0.025 * float64(c2BootstrapSamples))
	hiIdx := int(0.975*float64(c2BootstrapSamples)) - 1
	if hiIdx >= c2BootstrapSamples {
		hiIdx = c2BootstrapSamples - 1
	}
	result.CILow = samples[loIdx]
	result.CIHigh = samples[hiIdx]
	return result
}

// nmodeReferenceTemperature is the fixed temperature (K) at which
// quasi-harmonic and normal-mode entropies are converted to -TΔS,
// regardless of the general simulation temperature.
const nmodeReferenceTemperature = 298.15

// NmodeNegTDeltaS converts a quasi-harmonic or normal-mode entropy sample
// (cal/mol/K, as solvers report it) into -TΔS in kcal/mol at the fixed
// reference temperature.
func NmodeNegTDeltaS(entropyCalPerMolK float64) float64 {
	return -(nmodeReferenceTemperature * entropyCalPerMolK / 1000.0)
}
