package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCleanDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  uint16
		ok    bool
	}{
		{"zero", "0", 0, true},
		{"typical", "42", 42, true},
		{"max uint16", "65535", 65535, true},
		{"leading zero", "01", 0, false},
		{"overflow", "65536", 0, false},
		{"suffix", "12a", 0, false},
		{"empty", "", 0, false},
		{"negative", "-1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := IsCleanDecimal(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestHousenumberRender(t *testing.T) {
	root := NewSortedTable([]string{"12a", "14b"}, stringLess)

	clean := CleanHousenumber(42)
	assert.Equal(t, "42", clean.Render(root))

	idx, ok := root.IndexOf("14b")
	assert.True(t, ok)
	indexed := IndexedHousenumber(uint32(idx))
	assert.Equal(t, "14b", indexed.Render(root))
}
