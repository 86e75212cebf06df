package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSourceUnavailable means the transaction source is missing or unreadable.
	// It is terminal for the cycle and never retried.
	ErrSourceUnavailable = errors.New("transaction source unavailable")

	// ErrSchema means the transaction data is malformed.
	ErrSchema = errors.New("malformed transaction data")
)

// SourceError wraps the underlying failure of a transaction source
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("transaction source %q unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnavailable) true
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// SchemaError describes a malformed record. Row is 1-based over data rows; 0 means the header.
type SchemaError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("schema: row %d field %q value %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSchema) true
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// LookupFailure is the typed reason a market-data lookup produced no usable value
type LookupFailure string

const (
	FailureNone         LookupFailure = ""
	FailureNoData       LookupFailure = "no_data"
	FailureInvalidValue LookupFailure = "invalid_value"
	FailureTransport    LookupFailure = "transport"
	FailureUnknown      LookupFailure = "unknown"
)

// Quote is the outcome of one market-data lookup: either a value or a failure reason.
// Callers decide the substitute; a Quote never carries both.
type Quote struct {
	Value  float64
	Reason LookupFailure
	Err    error
}

// OK reports whether the lookup produced a usable value
func (q Quote) OK() bool { return q.Reason == FailureNone }

// QuoteOf builds a successful quote, downgrading non-positive or non-finite values to a failure
func QuoteOf(value float64) Quote {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quote{Reason: FailureInvalidValue, Err: fmt.Errorf("non-finite value %v", value)}
	}
	if value <= 0 {
		return Quote{Reason: FailureInvalidValue, Err: fmt.Errorf("non-positive value %v", value)}
	}
	return Quote{Value: value}
}

// Checked re-validates a quote a feed built by hand
func (q Quote) Checked() Quote {
	if q.Reason != FailureNone {
		return q
	}
	return QuoteOf(q.Value)
}

// QuoteFailed builds a failed quote
func QuoteFailed(reason LookupFailure, err error) Quote {
	if reason == FailureNone {
		reason = FailureUnknown
	}
	return Quote{Reason: reason, Err: err}
}
