package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	Name     string
	Location string
}

func fields(e entry) []string { return []string{e.Name, e.Location} }

var rooms = []entry{
	{"Apollo", "Floor 1"},
	{"Gemini", "Floor 2"},
	{"Mercury", "Floor 1"},
	{"Artemis", "Basement"},
	{"Voyager", "Floor 3"},
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns everything", "", []string{"Apollo", "Gemini", "Mercury", "Artemis", "Voyager"}},
		{"case-insensitive name match", "aPoL", []string{"Apollo"}},
		{"matches any field", "floor 1", []string{"Apollo", "Mercury"}},
		{"whitespace-only query returns everything", "   ", []string{"Apollo", "Gemini", "Mercury", "Artemis", "Voyager"}},
		{"no match yields empty", "saturn", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(rooms, tc.query, fields)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestPaginate(t *testing.T) {
	page0, total := Paginate(rooms, 0, 2)
	assert.Equal(t, 3, total)
	assert.Len(t, page0, 2)
	assert.Equal(t, "Apollo", page0[0].Name)

	last, _ := Paginate(rooms, 2, 2)
	assert.Len(t, last, 1)
	assert.Equal(t, "Voyager", last[0].Name)

	empty, total := Paginate(rooms, 7, 2)
	assert.Empty(t, empty)
	assert.Equal(t, 3, total)

	all, total := Paginate(rooms, 0, 0)
	assert.Len(t, all, 5)
	assert.Equal(t, 1, total)

	none, total := Paginate([]entry{}, 0, 10)
	assert.Empty(t, none)
	assert.Equal(t, 1, total)
}

// Filtering then paginating the same inputs twice must produce identical
// content and ordering.
func TestFilterPaginateStability(t *testing.T) {
	first, firstTotal := Paginate(Filter(rooms, "floor", fields), 1, 2)
	second, secondTotal := Paginate(Filter(rooms, "floor", fields), 1, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-3, 5))
	assert.Equal(t, 2, ClampPage(2, 5))
	assert.Equal(t, 4, ClampPage(9, 5))
	assert.Equal(t, 0, ClampPage(9, 0))
	assert.Equal(t, 0, ClampPage(9, -1))
}
