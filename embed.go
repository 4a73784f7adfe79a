// embed.go declares the embedded resources.
// It has to live in the project root, next to assets/, because //go:embed
// only embeds files below the declaring package's directory.
package main

import "embed"

//go:embed all:assets
var assetsFS embed.FS
