package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("Invoice March.PDF")
	assert.True(t, strings.HasPrefix(key, "documents/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	other := NewObjectKey("Invoice March.PDF")
	assert.NotEqual(t, key, other)

	noExt := NewObjectKey("README")
	assert.Len(t, strings.TrimPrefix(noExt, "documents/"), 36)
}
