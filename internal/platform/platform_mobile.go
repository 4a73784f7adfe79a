//go:build mobile

// Package platform answers the few questions whose answer depends on the build target.
package platform

// IsMobile always reports true for gomobile builds.
func IsMobile() bool {
	return true
}
