package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocation(t *testing.T) {
	locations := []Location{
		{ID: "5", Name: "Main Store"},
		{ID: "7", Name: "Airport Kiosk"},
		{ID: "9", Name: "main store"},
	}

	t.Run("empty token means no filter", func(t *testing.T) {
		assert.Equal(t, NoLocationFilter, ResolveLocation("", locations))
	})

	t.Run("numeric token is used verbatim", func(t *testing.T) {
		assert.Equal(t, "7", ResolveLocation("7", locations))
		assert.Equal(t, "42", ResolveLocation("42", locations))
	})

	t.Run("uuid token is used verbatim", func(t *testing.T) {
		id := "550e8400-e29b-41d4-a716-446655440000"
		assert.Equal(t, id, ResolveLocation(id, locations))
	})

	t.Run("name matches case-insensitively and first match wins", func(t *testing.T) {
		assert.Equal(t, "5", ResolveLocation("Main Store", locations))
		assert.Equal(t, "5", ResolveLocation("MAIN STORE", locations))
		assert.Equal(t, "7", ResolveLocation("airport kiosk", locations))
	})

	t.Run("unknown name fails open to the token", func(t *testing.T) {
		assert.Equal(t, "Harbour", ResolveLocation("Harbour", locations))
	})

	t.Run("unmatched token passes through unchanged", func(t *testing.T) {
		assert.Equal(t, " Harbour ", ResolveLocation(" Harbour ", locations))
		assert.Equal(t, "   ", ResolveLocation("   ", locations))
	})

	t.Run("works without any locations", func(t *testing.T) {
		assert.Equal(t, "Main Store", ResolveLocation("Main Store", nil))
	})
}
