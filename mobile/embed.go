//go:build mobile

// embed.go declares the embedded resources of mobile builds.
//
// It is only compiled with -tags mobile. The assets directory is copied next to
// this file before building:
//
//	cp -r assets mobile/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed all:assets
var assetsFS embed.FS
