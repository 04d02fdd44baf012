package assets

import "embed"

// ConfigFS contains the default provider profiles shipped with the sweep drivers (under assets/config).
//
//go:embed config/*.yaml
var ConfigFS embed.FS
