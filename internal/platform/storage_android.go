//go:build android

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir creates the gdata directory under /data/data/{package}.
// gdata uses that path on Android but does not create it.
func EnsureStorageDir() error {
	dir := StoragePath()
	if dir == "" {
		return fmt.Errorf("failed to detect Android package name")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// StoragePath returns /data/data/{package}, or "" if the package is unknown.
func StoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	name := make([]byte, 0, len(data))
	for _, ch := range data {
		if ch == 0 || ch == '\n' {
			continue
		}
		name = append(name, ch)
	}
	if len(name) == 0 {
		return ""
	}
	return filepath.Join("/data/data", string(name))
}
