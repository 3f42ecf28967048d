// Package ulid provides prefixed ULID generation for the identifiers the
// application hands out: analysis records and request ids. ULIDs sort
// lexicographically by time, which keeps history listings in insertion order
// without an extra index.
package ulid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Common prefixes for different parts of the application
const (
	// Prefix for analysis record ULIDs
	PrefixAnalysis = "an"

	// Prefix for request IDs
	PrefixRequest = "req"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Generate creates a new ULID string with the current timestamp.
func Generate() string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()
	return id.String()
}

// GenerateWithPrefix creates a new ULID with the current timestamp and a
// prefix giving context about what the ID represents.
func GenerateWithPrefix(prefix string) string {
	return prefix + PrefixSeparator + Generate()
}

// Validate checks if a string is a valid ULID, with or without a prefix.
func Validate(id string) bool {
	raw := id
	if idx := strings.Index(id, PrefixSeparator); idx >= 0 {
		raw = id[idx+1:]
	}
	_, err := ulid.Parse(raw)
	return err == nil
}

// AnalysisID generates a new ULID with the analysis prefix
func AnalysisID() string {
	return GenerateWithPrefix(PrefixAnalysis)
}

// RequestID generates a new ULID with the request prefix
func RequestID() string {
	return GenerateWithPrefix(PrefixRequest)
}
