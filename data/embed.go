// Package data provides the embedded scenarios shipped with the binary.
package data

import "embed"

// DefaultScenario is the scenario used when none is configured.
const DefaultScenario = "default.yaml"

// dataFS embeds all scenario files from the data directory at build time.
//
//go:embed *.yaml
var dataFS embed.FS

// FS returns the embedded filesystem containing scenarios.
func FS() embed.FS {
	return dataFS
}
