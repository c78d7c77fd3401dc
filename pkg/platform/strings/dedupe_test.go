package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "trims whitespace",
			input:    []string{"  foo  ", "bar  ", "  baz"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "collapses inner whitespace",
			input:    []string{"Jan   Novak", "Jan Novak", "Jan\tNovak"},
			expected: []string{"Jan Novak"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeBy(t *testing.T) {
	type row struct {
		id   int
		name string
	}
	rows := []row{{1, "Acme Corp"}, {2, "Beta"}, {1, "Acme Corp"}, {3, "Gamma"}, {2, "Beta"}}

	got := DedupeBy(rows, func(r row) int { return r.id })
	assert.Equal(t, []row{{1, "Acme Corp"}, {2, "Beta"}, {3, "Gamma"}}, got)
	assert.Empty(t, DedupeBy([]row(nil), func(r row) int { return r.id }))
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		full, name, surname string
	}{
		{"Jan Novak", "Jan", "Novak"},
		{"Ing. Peter Pavol Horvath", "Ing. Peter Pavol", "Horvath"},
		{"  Madonna ", "", "Madonna"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			name, surname := SplitFullName(tt.full)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.surname, surname)
		})
	}
}
