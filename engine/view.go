package engine

// ============================================================================
// RECORD VIEW — field accessor abstraction
// ============================================================================
// The engine never assumes a record shape. It reads fields by name through
// this interface and gets back an optional string.
//
// Implementations:
//   SliceView      — wraps []Record (CSV, XLSX, Sheets sources)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed, by-name access to a batch of records.
// Field reports ok=false when the field is absent on that record.
type RecordView interface {
	Len() int
	Field(index int, key string) (string, bool)
	Keys() []string // field names seen in the batch
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	keys    []string
}

// NewSliceView creates a RecordView from a []Record slice.
// Keys keeps first-seen order across records.
func NewSliceView(records []Record, keys ...string) RecordView {
	v := &SliceView{records: records, keys: keys}
	if len(v.keys) == 0 {
		v.cacheKeys()
	}
	return v
}

func (v *SliceView) cacheKeys() {
	seen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				v.keys = append(v.keys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Field(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.records) {
		return "", false
	}
	val, ok := v.records[i][key]
	return val, ok
}

func (v *SliceView) Keys() []string { return v.keys }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Field(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.indices) {
		return "", false
	}
	return v.parent.Field(v.indices[i], key)
}

func (v *SubView) Keys() []string { return v.parent.Keys() }

// ============================================================================
// DOMAIN ADAPTER — typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Response]().
//	    Field("Employment", func(r Response) (string, bool) { return r.Employment, r.Employment != "" }).
//	    String("RemoteWork", func(r Response) string { return r.Remote })
//
//	view := adapter.Bind(responses)
//	result := engine.Execute(view, defs)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	order  []string
	fields map[string]func(T) (string, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		fields: make(map[string]func(T) (string, bool)),
	}
}

// Field registers an accessor that can report absence.
func (a *DomainAdapter[T]) Field(key string, fn func(T) (string, bool)) *DomainAdapter[T] {
	if _, exists := a.fields[key]; !exists {
		a.order = append(a.order, key)
	}
	a.fields[key] = fn
	return a
}

// String registers an accessor whose field is always present.
func (a *DomainAdapter[T]) String(key string, fn func(T) string) *DomainAdapter[T] {
	return a.Field(key, func(t T) (string, bool) { return fn(t), true })
}

// Bind creates a RecordView from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:   data,
		fields: a.fields,
		keys:   a.order,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data   []T
	fields map[string]func(T) (string, bool)
	keys   []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Field(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.data) {
		return "", false
	}
	if fn, ok := v.fields[key]; ok {
		return fn(v.data[i])
	}
	return "", false
}

func (v *DomainView[T]) Keys() []string { return v.keys }
