//go:build !mobile

// Package platform answers the few questions whose answer depends on the build target.
package platform

import "os"

// EmulateEnv forces mobile mode on desktop builds when set to "1".
const EmulateEnv = "CYBERPUNK_MOBILE_EMULATE"

// IsMobile reports whether the app runs on a touch-first device.
// Desktop builds return false unless EmulateEnv is set.
func IsMobile() bool {
	return os.Getenv(EmulateEnv) == "1"
}
