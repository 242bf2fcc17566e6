package gerlin

import "embed"

// contentFS holds the Markdown bodies of the static pages and the manifest of
// the bundled press archive.
//
//go:embed pages/*.md press.yaml
var contentFS embed.FS
