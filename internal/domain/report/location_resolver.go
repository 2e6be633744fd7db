package report

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NoLocationFilter is the resolved id meaning "do not restrict by location"
const NoLocationFilter = ""

// ResolveLocation maps a user supplied location token to a location id.
//
// The token is used as given; callers trim user input before building the
// filter. An empty token means no restriction. A token shaped like an identifier
// (integer or UUID) is used verbatim. Otherwise the token is matched against
// location names case-insensitively and the first match wins. An unmatched
// name is returned unchanged so the downstream fetch simply matches nothing.
func ResolveLocation(token string, locations []Location) string {
	if token == "" {
		return NoLocationFilter
	}
	if isIdentifier(token) {
		return token
	}
	for _, loc := range locations {
		if strings.EqualFold(loc.Name, token) {
			return loc.ID
		}
	}
	return token
}

func isIdentifier(token string) bool {
	if _, err := strconv.ParseInt(token, 10, 64); err == nil {
		return true
	}
	_, err := uuid.Parse(token)
	return err == nil
}
