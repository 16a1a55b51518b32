package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type response struct {
	Employment string
	Remote     *string
	Comp       string
}

func TestDomainAdapter(t *testing.T) {
	hybrid := "Hybrid"
	data := []response{
		{Employment: "Employed", Remote: &hybrid, Comp: "90000"},
		{Employment: "Student", Comp: ""},
	}

	view := NewDomainAdapter[response]().
		String("Employment", func(r response) string { return r.Employment }).
		Field("RemoteWork", func(r response) (string, bool) {
			if r.Remote == nil {
				return "", false
			}
			return *r.Remote, true
		}).
		String("Comp", func(r response) string { return r.Comp }).
		Bind(data)

	assert.Equal(t, 2, view.Len())
	assert.Equal(t, []string{"Employment", "RemoteWork", "Comp"}, view.Keys())

	val, ok := view.Field(1, "RemoteWork")
	assert.False(t, ok)
	assert.Empty(t, val)

	_, ok = view.Field(0, "Missing")
	assert.False(t, ok)

	_, ok = view.Field(5, "Employment")
	assert.False(t, ok)

	assert.Equal(t, FrequencyMap{"Hybrid": 1}, TallyField(view, "RemoteWork"))
	assert.Equal(t, []float64{90000}, ExtractNumeric(view, "Comp", DefaultBounds))
}

func TestSliceViewKeys(t *testing.T) {
	view := NewSliceView([]Record{{"A": "1"}, {"B": "2", "A": "3"}})
	assert.ElementsMatch(t, []string{"A", "B"}, view.Keys())

	view = NewSliceView(nil, "X", "Y")
	assert.Equal(t, []string{"X", "Y"}, view.Keys())
	assert.Zero(t, view.Len())
}

func TestSliceViewAbsentVersusEmpty(t *testing.T) {
	view := NewSliceView([]Record{{"A": ""}, {}})

	val, ok := view.Field(0, "A")
	assert.True(t, ok)
	assert.Empty(t, val)

	_, ok = view.Field(1, "A")
	assert.False(t, ok)
}

func TestApplyFilters(t *testing.T) {
	view := NewSliceView([]Record{
		{"Employment": "Employed", "Country": "Germany"},
		{"Employment": "Student", "Country": "Germany"},
		{"Employment": "employed", "Country": "India"},
		{"Country": "India"},
	})

	tests := []struct {
		name    string
		filters Filters
		want    int
	}{
		{name: "empty", filters: Filters{}, want: 4},
		{name: "nil values", filters: Filters{Fields: map[string][]string{"Employment": nil}}, want: 4},
		{name: "case-insensitive", filters: Filters{Fields: map[string][]string{"Employment": {"EMPLOYED"}}}, want: 2},
		{name: "or within field", filters: Filters{Fields: map[string][]string{"Employment": {"Employed", "Student"}}}, want: 3},
		{name: "and across fields", filters: Filters{Fields: map[string][]string{
			"Employment": {"Employed"},
			"Country":    {"India"},
		}}, want: 1},
		{name: "no match", filters: Filters{Fields: map[string][]string{"Country": {"France"}}}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(view, tt.filters)
			assert.Equal(t, tt.want, got.Len())
		})
	}
}

func TestSubViewDelegates(t *testing.T) {
	view := NewSliceView([]Record{{"A": "x"}, {"A": "y"}, {"A": "z"}})
	sub := ApplyFilters(view, Filters{Fields: map[string][]string{"A": {"z"}}})

	val, ok := sub.Field(0, "A")
	assert.True(t, ok)
	assert.Equal(t, "z", val)

	_, ok = sub.Field(1, "A")
	assert.False(t, ok)
	assert.Equal(t, view.Keys(), sub.Keys())
}

func TestFiltersHelpers(t *testing.T) {
	f := Filters{Fields: map[string][]string{"A": {"x"}, "B": {}}}
	assert.True(t, f.HasFilter("A"))
	assert.False(t, f.HasFilter("B"))
	assert.False(t, f.HasFilter("C"))
	assert.False(t, f.IsEmpty())
	assert.True(t, Filters{}.IsEmpty())
}
