package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// IdentitySeparator joins the name and school components of an identity key.
const IdentitySeparator = "|"

// IdentityKey builds the join key used between primary rows and enrichment
// records: both components trimmed and case-folded, joined by IdentitySeparator.
func IdentityKey(name, school string) string {
	// A Caser carries state, so each call gets its own.
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(name)) + IdentitySeparator + fold.String(strings.TrimSpace(school))
}
