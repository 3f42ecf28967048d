package ulid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	assert.Len(t, id, 26)
	assert.True(t, Validate(id))
}

func TestGenerateWithPrefix(t *testing.T) {
	id := AnalysisID()
	assert.True(t, strings.HasPrefix(id, PrefixAnalysis+PrefixSeparator))
	assert.True(t, Validate(id))

	req := RequestID()
	assert.True(t, strings.HasPrefix(req, PrefixRequest+PrefixSeparator))
	assert.True(t, Validate(req))
}

func TestValidate(t *testing.T) {
	assert.False(t, Validate("not-a-ulid"))
	assert.False(t, Validate(""))
}

func TestGenerateMonotonic(t *testing.T) {
	a := Generate()
	b := Generate()
	assert.True(t, a < b, "ULIDs generated in sequence should sort in order")
}
