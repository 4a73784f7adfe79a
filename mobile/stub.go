//go:build !mobile

// stub.go is compiled by regular builds. The real binding lives in mobile.go
// and embed.go, which need -tags mobile.
package mobile

// Dummy is an exported no-op so that the package can be referenced in regular builds.
func Dummy() {}
