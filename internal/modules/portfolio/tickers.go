package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aristath/folio/pkg/embedded"
)

// TickerMap maps asset ids to market-data tickers. Tickers listed in
// ForeignCurrencyTickers quote in the foreign currency and are converted with the FX rate.
type TickerMap struct {
	Tickers                map[string]string `json:"tickers"`
	ForeignCurrencyTickers []string          `json:"foreign_currency_tickers"`

	foreign map[string]struct{}
}

// ParseTickerMap decodes and validates a ticker mapping document
func ParseTickerMap(r io.Reader) (*TickerMap, error) {
	var tm TickerMap
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tm); err != nil {
		return nil, fmt.Errorf("failed to decode ticker map: %w", err)
	}
	if err := tm.Validate(); err != nil {
		return nil, err
	}
	tm.index()
	return &tm, nil
}

// LoadTickerMap reads the mapping from path, or the built-in mapping when path is empty
func LoadTickerMap(path string) (*TickerMap, error) {
	if path == "" {
		return DefaultTickerMap()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker map: %w", err)
	}
	defer f.Close()
	return ParseTickerMap(f)
}

// DefaultTickerMap returns the mapping compiled into the binary
func DefaultTickerMap() (*TickerMap, error) {
	return ParseTickerMap(bytes.NewReader(embedded.TickersJSON))
}

// NewTickerMap builds a mapping in code, mostly for tests
func NewTickerMap(tickers map[string]string, foreign ...string) *TickerMap {
	tm := &TickerMap{Tickers: tickers, ForeignCurrencyTickers: foreign}
	tm.index()
	return tm
}

// Validate rejects empty ids and tickers
func (m *TickerMap) Validate() error {
	if len(m.Tickers) == 0 {
		return fmt.Errorf("ticker map has no entries")
	}
	for id, ticker := range m.Tickers {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("ticker map has an empty asset id")
		}
		if strings.TrimSpace(ticker) == "" {
			return fmt.Errorf("ticker map entry %s has an empty ticker", id)
		}
	}
	for _, ticker := range m.ForeignCurrencyTickers {
		if strings.TrimSpace(ticker) == "" {
			return fmt.Errorf("foreign currency ticker list has an empty entry")
		}
	}
	return nil
}

func (m *TickerMap) index() {
	m.foreign = make(map[string]struct{}, len(m.ForeignCurrencyTickers))
	for _, t := range m.ForeignCurrencyTickers {
		m.foreign[t] = struct{}{}
	}
}

// Lookup returns the ticker for an asset id
func (m *TickerMap) Lookup(assetID string) (string, bool) {
	t, ok := m.Tickers[assetID]
	return t, ok
}

// IsForeign reports whether a ticker quotes in the foreign currency
func (m *TickerMap) IsForeign(ticker string) bool {
	_, ok := m.foreign[ticker]
	return ok
}

// AssetIDs returns the mapped asset ids in sorted order
func (m *TickerMap) AssetIDs() []string {
	ids := make([]string, 0, len(m.Tickers))
	for id := range m.Tickers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
