package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckWatchInterval(t *testing.T) {
	assert.NoError(t, checkWatchInterval(1))
	assert.NoError(t, checkWatchInterval(30))
	assert.Error(t, checkWatchInterval(0))
	assert.Error(t, checkWatchInterval(-5))
}
