package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedCategories(t *testing.T) {
	seeds := SeedCategories()

	// The default category is seeded first so it takes id 1.
	assert.Equal(t, DefaultCategoryName, seeds[0])
	assert.Len(t, seeds, 6)

	seen := make(map[string]bool)
	for _, name := range seeds {
		assert.False(t, seen[name], name)
		seen[name] = true
	}
}
