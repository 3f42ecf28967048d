package utils

import (
	"strings"
	"time"

	"github.com/goombaio/namegenerator"
)

// maskPrefixLen is how many characters of a sensitive identifier are kept
// visible when masking for display or logging.
const maskPrefixLen = 8

// MaskIdentifier truncates a sensitive identifier to a short prefix followed
// by "...". Identifiers shorter than the prefix are shown whole, still with
// the "..." marker, so callers can't tell the full length from the output.
func MaskIdentifier(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= maskPrefixLen {
		return id + "..."
	}
	return id[:maskPrefixLen] + "..."
}

// GenerateSessionName creates a random, memorable name for an analysis
// session using namegenerator
func GenerateSessionName() string {
	seed := time.Now().UTC().UnixNano()
	nameGenerator := namegenerator.NewNameGenerator(seed)

	// Generate a name like "wispy-dust"
	name := nameGenerator.Generate()

	// Some names might have underscores; convert to hyphens for consistency
	name = strings.ReplaceAll(name, "_", "-")

	return name
}
