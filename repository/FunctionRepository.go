package repository

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRFQID returns a fresh RFQ reference in the form RFQ-<year>-<4 digits>.
// Uniqueness is best effort only: references are never persisted or checked
// against history, so a collision across sends is accepted.
func GenerateRFQID() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	num := rng.Intn(9000) + 1000

	return fmt.Sprintf("RFQ-%d-%04d", time.Now().Year(), num)
}

// rfqIDPattern matches references produced by GenerateRFQID.
var rfqIDPattern = regexp.MustCompile(`^RFQ-\d{4}-\d{4}$`)

// IsRFQID reports whether s looks like a generated RFQ reference.
func IsRFQID(s string) bool {
	return rfqIDPattern.MatchString(s)
}

// NewItemID returns a fresh line item identifier. Identifiers are unique
// within a draft and never reused after deletion.
func NewItemID() string {
	return uuid.NewString()
}

// NewDraftID returns a fresh wizard draft identifier.
func NewDraftID() string {
	return uuid.NewString()
}

// Slugify converts a system or manufacturer name to a URL slug, matching
// the directory's slug format: lowercase, runs of non-alphanumerics
// collapsed to single dashes, no leading or trailing dash.
func Slugify(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
