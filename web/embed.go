package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/reports/*.html
var Templates embed.FS
