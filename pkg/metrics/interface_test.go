package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	assert.Equal(t, "operation:people_enrichment", Tag("operation", "people_enrichment"))
	assert.Equal(t, "status:", Tag("status", ""))
}
