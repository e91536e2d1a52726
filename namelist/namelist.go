// Package namelist parses the Fortran-style declarative input language:
// namespace blocks delimited by "&name ... /" (or "&name ... &end"),
// comment lines starting with "#" or "!", blank lines ignored, and
// "name = value[, value ...]" assignments with continuation lines.
//
// The parser itself is schema-driven rather than reflective; this file
// implements the tokenizer and the prefix-matching lookup around a
// line-oriented *parser struct with an explicit line counter used for
// error context.
package namelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

// Kind tags the scalar type a variable's raw tokens must be converted to.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindList
)

// VarDef is one schema entry: canonical name, type, default value, and the
// declared minimum prefix length a user token must match.
type VarDef struct {
	Name         string
	Kind         Kind
	Default      any
	MinCharsDecl int
}

// NamespaceSchema is the fixed vocabulary for one &block.
type NamespaceSchema struct {
	Name string
	Vars []VarDef
}

// Registry is the full set of known namespaces, e.g. general/gb/pb/ala/
// nmode/decomp/rism.
type Registry struct {
	namespaces map[string]NamespaceSchema
	minChars   map[string]map[string]int // namespace -> varName -> effective min chars
}

// NewRegistry builds a Registry from a fixed list of namespace schemas and
// precomputes, for each namespace, the minimum token length of every
// variable.
func NewRegistry(schemas []NamespaceSchema) *Registry {
	r := &Registry{
		namespaces: make(map[string]NamespaceSchema, len(schemas)),
		minChars:   make(map[string]map[string]int, len(schemas)),
	}
	for _, ns := range schemas {
		r.namespaces[strings.ToLower(ns.Name)] = ns
		r.minChars[strings.ToLower(ns.Name)] = effectiveMinChars(ns.Vars)
	}
	return r
}

// effectiveMinChars gives every variable of a namespace the same minimum
// token length: the smallest MinCharsDecl declared in that namespace. A
// token of at least that length that is a prefix of more than one variable
// (and is not itself a full variable name) is rejected by Lookup as an
// ambiguous prefix.
func effectiveMinChars(vars []VarDef) map[string]int {
	nsMin := 0
	for i, v := range vars {
		if i == 0 || v.MinCharsDecl < nsMin {
			nsMin = v.MinCharsDecl
		}
	}
	out := make(map[string]int, len(vars))
	for _, v := range vars {
		out[v.Name] = nsMin
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Lookup resolves a user-supplied namespace name and variable token against
// the schema, applying prefix-abbreviated, case-insensitive matching.
func (r *Registry) Lookup(namespace, token string) (*VarDef, error) {
	nsKey := strings.ToLower(namespace)
	ns, ok := r.namespaces[nsKey]
	if !ok {
		return nil, mmerrors.ConfigError{Namespace: namespace, Msg: "unknown namespace"}
	}
	lowToken := strings.ToLower(token)
	minChars := r.minChars[nsKey]
	var matches []VarDef
	for _, v := range ns.Vars {
		lowName := strings.ToLower(v.Name)
		if lowName == lowToken {
			def := v
			return &def, nil
		}
		if len(lowToken) < minChars[v.Name] {
			continue
		}
		if len(lowToken) > len(lowName) {
			continue
		}
		if lowName[:len(lowToken)] == lowToken {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return nil, mmerrors.ConfigError{Namespace: namespace, Token: token, Msg: "unknown variable"}
	case 1:
		return &matches[0], nil
	default:
		return nil, mmerrors.ConfigError{Namespace: namespace, Token: token, Msg: "ambiguous prefix"}
	}
}

// Namespaces exposes the known namespace names.
func (r *Registry) Namespaces() []string {
	out := make([]string, 0, len(r.namespaces))
	for k := range r.namespaces {
		out = append(out, k)
	}
	return out
}

// Schema returns the schema for a namespace, if known.
func (r *Registry) Schema(namespace string) (NamespaceSchema, bool) {
	ns, ok := r.namespaces[strings.ToLower(namespace)]
	return ns, ok
}

// Value holds a raw, type-converted assignment.
type Value struct {
	Kind   Kind
	Int    int
	Float  float64
	Str    string
	List   []string
	Raw    string
	IsList bool
}

// Document is the flat result of a parse: every namespace that appeared at
// least once ("triggered"), and the raw values assigned within each.
type Document struct {
	Triggered map[string]bool
	Values    map[string]map[string]Value // namespace -> varName -> value
}

type parser struct {
	reg      *Registry
	scanner  *bufio.Scanner
	line     int
	cur      string
	curNS    string
	doc      *Document
	lastVar  string // last assigned var, for continuation lines
	assigned map[string]bool
}

// Parse reads a namelist document from path and resolves every assignment
// against reg, returning a Document with one canonical entry per declared
// variable (defaults supplied for variables never assigned).
func Parse(path string, reg *Registry) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mmerrors.ConfigError{Msg: fmt.Sprintf("input file not found: %s", path), Inner: err}
		}
		return nil, err
	}
	defer f.Close()
	return ParseReader(f, reg)
}

// ParseReader is the reader-based counterpart of Parse, used by tests and
// by callers that already have the document in memory.
func ParseReader(r io.Reader, reg *Registry) (*Document, error) {
	p := &parser{
		reg:     reg,
		scanner: bufio.NewScanner(r),
		doc: &Document{
			Triggered: make(map[string]bool),
			Values:    make(map[string]map[string]Value),
		},
		assigned: make(map[string]bool),
	}
	p.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if err := p.run(); err != nil {
		return nil, err
	}
	p.fillDefaults()
	return p.doc, nil
}

func (p *parser) run() error {
	for p.scanner.Scan() {
		p.line++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		if p.curNS == "" {
			if strings.HasPrefix(line, "&") {
				name := strings.TrimSpace(line[1:])
				if name == "" {
					return mmerrors.ConfigError{Msg: fmt.Sprintf("line %d: empty namespace name", p.line)}
				}
				if _, ok := p.reg.Schema(name); !ok {
					return mmerrors.ConfigError{Namespace: name, Msg: "unknown namespace"}
				}
				p.curNS = strings.ToLower(name)
				p.doc.Triggered[p.curNS] = true
				if _, ok := p.doc.Values[p.curNS]; !ok {
					p.doc.Values[p.curNS] = make(map[string]Value)
				}
				p.lastVar = ""
				continue
			}
			// content between blocks is ignored
			continue
		}
		// inside a namespace block
		if strings.HasPrefix(line, "&") && !isEndMarker(line) {
			return mmerrors.ConfigError{Namespace: p.curNS, Msg: fmt.Sprintf("unterminated namespace: nested '&' before '/' at line %d", p.line)}
		}
		if isEndMarker(line) {
			p.curNS = ""
			p.lastVar = ""
			continue
		}
		if err := p.handleAssignment(line); err != nil {
			return err
		}
	}
	if err := p.scanner.Err(); err != nil {
		return err
	}
	if p.curNS != "" {
		return mmerrors.ConfigError{Namespace: p.curNS, Msg: "unterminated namespace: reached end of file before '/'"}
	}
	return nil
}

func isEndMarker(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "/" || strings.EqualFold(trimmed, "&end")
}

func (p *parser) handleAssignment(line string) error {
	// strip a trailing "/" end-of-namelist marker from the same line
	body := line
	if strings.HasSuffix(body, "/") {
		body = strings.TrimSpace(strings.TrimSuffix(body, "/"))
		defer func() { p.curNS = "" }()
	}
	if body == "" {
		return nil
	}
	// several assignments may share one line ("a=1, b=2"): a comma-separated
	// piece containing '=' starts a new assignment, any other piece belongs
	// to the value before it.
	var stmts []string
	for _, piece := range strings.Split(body, ",") {
		if len(stmts) == 0 || strings.Contains(piece, "=") {
			stmts = append(stmts, piece)
		} else {
			stmts[len(stmts)-1] += "," + piece
		}
	}
	if len(stmts) > 1 {
		for _, s := range stmts {
			if err := p.handleAssignment(strings.TrimSpace(s)); err != nil {
				return err
			}
		}
		return nil
	}
	eq := strings.Index(body, "=")
	if eq < 0 {
		// continuation of the previous assignment
		if p.lastVar == "" {
			return mmerrors.ConfigError{Namespace: p.curNS, Msg: fmt.Sprintf("line %d: value with no preceding assignment", p.line)}
		}
		return p.appendValue(p.lastVar, body)
	}
	token := strings.TrimSpace(body[:eq])
	rest := strings.TrimSpace(body[eq+1:])
	def, err := p.reg.Lookup(p.curNS, token)
	if err != nil {
		return err
	}
	key := strings.ToLower(def.Name)
	if p.assigned[p.curNS+"."+key] {
		return mmerrors.ConfigError{Namespace: p.curNS, Token: token, Msg: "duplicate variable"}
	}
	p.assigned[p.curNS+"."+key] = true
	p.lastVar = key
	v, err := convert(*def, rest)
	if err != nil {
		return err
	}
	p.doc.Values[p.curNS][key] = v
	return nil
}

func (p *parser) appendValue(varName, chunk string) error {
	ns := p.doc.Values[p.curNS]
	v, ok := ns[varName]
	if !ok {
		return mmerrors.InternalError{Msg: "continuation line for unknown variable " + varName}
	}
	extended := v.Raw + " " + chunk
	def, err := p.reg.Lookup(p.curNS, varName)
	if err != nil {
		return err
	}
	nv, err := convert(*def, extended)
	if err != nil {
		return err
	}
	ns[varName] = nv
	return nil
}

func (p *parser) fillDefaults() {
	for _, nsName := range p.reg.Namespaces() {
		schema, _ := p.reg.Schema(nsName)
		if _, ok := p.doc.Values[nsName]; !ok {
			p.doc.Values[nsName] = make(map[string]Value)
		}
		for _, def := range schema.Vars {
			key := strings.ToLower(def.Name)
			if _, ok := p.doc.Values[nsName][key]; ok {
				continue
			}
			p.doc.Values[nsName][key] = defaultValue(def)
		}
	}
}

func defaultValue(def VarDef) Value {
	switch def.Kind {
	case KindInt:
		iv, _ := def.Default.(int)
		return Value{Kind: KindInt, Int: iv}
	case KindFloat:
		fv, _ := toFloat(def.Default)
		return Value{Kind: KindFloat, Float: fv}
	case KindList:
		sv, _ := def.Default.(string)
		return Value{Kind: KindList, List: splitList(sv), Raw: sv, IsList: true}
	default:
		sv, _ := def.Default.(string)
		return Value{Kind: KindString, Str: sv, Raw: sv}
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func convert(def VarDef, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch def.Kind {
	case KindInt:
		s := strings.Trim(raw, "'\"")
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Value{}, mmerrors.ConfigError{Namespace: "", Token: def.Name, Msg: "type mismatch: expected integer", Inner: err}
		}
		return Value{Kind: KindInt, Int: n, Raw: raw}, nil
	case KindFloat:
		s := strings.Trim(raw, "'\"")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, mmerrors.ConfigError{Namespace: "", Token: def.Name, Msg: "type mismatch: expected float", Inner: err}
		}
		return Value{Kind: KindFloat, Float: f, Raw: raw}, nil
	case KindList:
		list := splitList(raw)
		return Value{Kind: KindList, List: list, Raw: raw, IsList: true}, nil
	default: // KindString
		s := strings.Trim(raw, "'\"")
		return Value{Kind: KindString, Str: s, Raw: raw}, nil
	}
}

// splitList implements the "numeric-friendly" comma/semicolon split: a
// comma or semicolon is a separator unless it is immediately flanked by a
// digit on either side (so "1,2,3" stays one item, and so does "A/35,B/22"
// since the comma is preceded by the digit '5'). Equivalent to
// the regex (?<!\d)[,;](?!\d), which Go's RE2 engine can't express directly
// since it has no lookaround, so this is hand-rolled instead.
func splitList(raw string) []string {
	raw = strings.Trim(raw, "'\"")
	var parts []string
	var cur strings.Builder
	runes := []rune(raw)
	isDigit := func(i int) bool { return i >= 0 && i < len(runes) && runes[i] >= '0' && runes[i] <= '9' }
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if (c == ',' || c == ';') && !isDigit(i-1) && !isDigit(i+1) {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	last := strings.TrimSpace(cur.String())
	if last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	if len(parts) == 0 {
		return nil
	}
	return parts
}
