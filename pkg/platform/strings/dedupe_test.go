package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		expect []string
	}{
		{name: "nil stays nil", input: nil, expect: nil},
		{name: "trims and drops empties", input: []string{"  DRIVER@#$ ", "", "   "}, expect: []string{"DRIVER@#$"}},
		{name: "keeps first occurrence order", input: []string{"b", "a", "b", " a"}, expect: []string{"b", "a"}},
		{name: "case is significant", input: []string{"Bearer x", "bearer x"}, expect: []string{"Bearer x", "bearer x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitDedupeAndTrim(t *testing.T) {
	got := SplitDedupeAndTrim([]string{"DRIVER@#$, OFFICER@#$", "OFFICER@#$", " , "}, ",")
	assert.Equal(t, []string{"DRIVER@#$", "OFFICER@#$"}, got)

	assert.Empty(t, SplitDedupeAndTrim(nil, ","))
}
