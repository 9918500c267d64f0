// Package assets embeds the default scenario and sprites so the binary runs
// without an assets directory.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed scenario sprites
var files embed.FS

// FS returns the embedded asset tree. Paths are relative to its root, e.g.
// "scenario/default.yaml".
func FS() fs.FS {
	return files
}
