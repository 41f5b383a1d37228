package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	first, second := New(), New()
	assert.NotEqual(t, first, second)
	assert.True(t, Valid(first))
	assert.False(t, Valid("report"))
}
