package golayoutview

import "embed"

// EmbeddedFrontendFS provides the built frontend assets served by the
// desktop shell.
//
//go:embed frontend/dist
var EmbeddedFrontendFS embed.FS
