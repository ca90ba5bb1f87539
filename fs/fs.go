// Package appfs exposes the files shipped inside the binaries.
package appfs

import "embed"

//go:embed migrations templates config
var FS embed.FS
