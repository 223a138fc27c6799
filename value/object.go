package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Object is a value whose storage is owned by the memory manager.
type Object interface {
	Value

	IsMarked() bool
	Mark()
	Unmark()

	// References lists the values this object keeps alive.
	References() []Value
}

// Header is embedded in every object. The mark bit is only meaningful
// while a collection is running.
type Header struct {
	marked bool
}

func (h *Header) IsMarked() bool { return h.marked }
func (h *Header) Mark()          { h.marked = true }
func (h *Header) Unmark()        { h.marked = false }

type String struct {
	Header
	Chars string
}

func (s *String) String() string    { return s.Chars }
func (*String) Type() string        { return "string" }
func (*String) Truthy() bool        { return true }
func (*String) References() []Value { return nil }

type tableKey struct {
	kind  uint8
	num   float64
	str   string
	table *Table
}

const (
	keyBoolean = iota + 1
	keyNumber
	keyString
	keyTable
)

type entry struct {
	key Value
	val Value
}

type Table struct {
	Header
	entries map[tableKey]entry
	length  int
}

// NewTable is for callers outside the memory manager, such as tests. The
// interpreter allocates tables through memory.Heap so they are tracked.
func NewTable() *Table {
	return &Table{entries: make(map[tableKey]entry)}
}

func (*Table) Type() string { return "table" }
func (*Table) Truthy() bool { return true }

func (t *Table) String() string {
	return fmt.Sprintf("table: %p", t)
}

func keyOf(v Value) (tableKey, bool) {
	switch v := v.(type) {
	case Boolean:
		k := tableKey{kind: keyBoolean}
		if v {
			k.num = 1
		}
		return k, true
	case Number:
		if math.IsNaN(float64(v)) {
			return tableKey{}, false
		}
		return tableKey{kind: keyNumber, num: float64(v)}, true
	case *String:
		return tableKey{kind: keyString, str: v.Chars}, true
	case *Table:
		return tableKey{kind: keyTable, table: v}, true
	default:
		return tableKey{}, false
	}
}

// Get returns nil for missing keys and for keys that cannot be stored.
func (t *Table) Get(key Value) Value {
	k, ok := keyOf(key)
	if !ok {
		return Nil{}
	}

	e, ok := t.entries[k]
	if !ok {
		return Nil{}
	}

	return e.val
}

// Set stores val under key. Assigning nil removes the key. It reports
// false when key is nil or NaN.
func (t *Table) Set(key, val Value) bool {
	k, ok := keyOf(key)
	if !ok {
		return false
	}

	if IsNil(val) {
		delete(t.entries, k)
		return true
	}

	t.entries[k] = entry{key, val}

	return true
}

// Insert appends val at the next integer index, starting from 1.
func (t *Table) Insert(val Value) {
	t.length++
	t.Set(Number(t.length), val)
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) References() []Value {
	refs := make([]Value, 0, 2*len(t.entries))
	for _, e := range t.entries {
		refs = append(refs, e.key, e.val)
	}

	return refs
}

// Describe renders the table's contents sorted by key, for debugging and
// tests. Nested tables are not expanded.
func (t *Table) Describe() string {
	pairs := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		pairs = append(pairs, fmt.Sprintf("%s=%s", describeKey(e.key), describeVal(e.val)))
	}

	sort.Strings(pairs)

	return "{" + strings.Join(pairs, ", ") + "}"
}

func describeKey(v Value) string {
	if s, ok := v.(*String); ok {
		return s.Chars
	}

	return "[" + v.String() + "]"
}

func describeVal(v Value) string {
	if s, ok := v.(*String); ok {
		return fmt.Sprintf("%q", s.Chars)
	}

	return v.String()
}
