// Package gamedata provides the embedded unit catalog and attack table.
package gamedata

import "embed"

// dataFS embeds the JSON tables in this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
