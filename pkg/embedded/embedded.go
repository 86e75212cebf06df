// Package embedded provides static assets compiled into the binaries.
package embedded

import (
	_ "embed"
)

// TickersJSON is the default asset id to ticker mapping.
// FOLIO_TICKERS points at a file with the same layout to override it.
//
//go:embed tickers.json
var TickersJSON []byte
