//go:build !mobile && !android

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobile(t *testing.T) {
	t.Setenv(EmulateEnv, "")
	assert.False(t, IsMobile())

	t.Setenv(EmulateEnv, "1")
	assert.True(t, IsMobile(), "emulation forces mobile mode")
}

func TestStorageDefaults(t *testing.T) {
	assert.NoError(t, EnsureStorageDir())
	assert.Empty(t, StoragePath())
}
