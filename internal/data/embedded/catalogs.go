// Package embedded provides access to embedded catalog data files.
package embedded

import _ "embed"

// SignalCatalogData contains the embedded response signal catalog YAML data.
//
//go:embed signals.yaml
var SignalCatalogData []byte
