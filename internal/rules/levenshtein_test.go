// internal/rules/levenshtein_test.go
package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("ringo", "ringo"))
	assert.Equal(t, 1, Levenshtein("ringo", "ring"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 5, Levenshtein("", "hello"))
}

func TestLevenshteinNormalizes(t *testing.T) {
	// Case, punctuation and spacing are all stripped before comparing.
	assert.Equal(t, 0, Levenshtein("Have a nice day!!!", "haveaniceday"))
	assert.Equal(t, 0, Levenshtein("RINGO STARR", "ringo starr"))
	assert.Equal(t, 0, Levenshtein("...", ""))
}
