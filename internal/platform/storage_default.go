//go:build !android

package platform

// EnsureStorageDir is a no-op; gdata creates its directory itself.
func EnsureStorageDir() error {
	return nil
}

// StoragePath returns "" outside Android.
func StoragePath() string {
	return ""
}
