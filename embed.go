package markdeck

import "embed"

// EmbeddedFrontendFS provides the built front-end assets served by the
// desktop window.
//
//go:embed frontend/dist
var EmbeddedFrontendFS embed.FS
