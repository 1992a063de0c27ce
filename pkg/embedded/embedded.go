// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the dashboard files embedded in the Go binary:
// - public/index.html - single-page dashboard served at /
//
//go:embed public
var Files embed.FS
