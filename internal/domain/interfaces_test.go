package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticLoader []Transaction

func (l staticLoader) Load(context.Context) ([]Transaction, error) { return l, nil }

type staticPrice float64

func (p staticPrice) LatestClose(context.Context, string) Quote { return QuoteOf(float64(p)) }

type staticRate float64

func (r staticRate) Rate(context.Context, string, string) Quote { return QuoteOf(float64(r)) }

func TestInterfaces(t *testing.T) {
	var _ TransactionLoader = staticLoader(nil)
	var _ PriceFeed = staticPrice(0)
	var _ RateFeed = staticRate(0)
}

func TestQuoteOf(t *testing.T) {
	q := QuoteOf(12.5)
	assert.True(t, q.OK())
	assert.Equal(t, 12.5, q.Value)

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		q := QuoteOf(v)
		assert.False(t, q.OK())
		assert.Equal(t, FailureInvalidValue, q.Reason)
		assert.Equal(t, 0.0, q.Value)
		assert.Error(t, q.Err)
	}
}

func TestQuote_Checked(t *testing.T) {
	assert.True(t, Quote{Value: 3}.Checked().OK())

	q := Quote{Value: math.NaN()}.Checked()
	assert.False(t, q.OK())
	assert.Equal(t, FailureInvalidValue, q.Reason)
	assert.Equal(t, 0.0, q.Value)

	failed := QuoteFailed(FailureTransport, errors.New("timeout"))
	assert.Equal(t, failed, failed.Checked())
}

func TestQuoteFailed(t *testing.T) {
	q := QuoteFailed(FailureTransport, errors.New("timeout"))
	assert.False(t, q.OK())
	assert.Equal(t, FailureTransport, q.Reason)

	q = QuoteFailed(FailureNone, nil)
	assert.False(t, q.OK())
	assert.Equal(t, FailureUnknown, q.Reason)
}

func TestSourceError(t *testing.T) {
	cause := errors.New("no such file")
	err := fmt.Errorf("failed to load transactions: %w", &SourceError{Source: "bux_export.csv", Err: cause})

	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "bux_export.csv")

	var srcErr *SourceError
	assert.True(t, errors.As(err, &srcErr))
}

func TestSchemaError(t *testing.T) {
	err := &SchemaError{Row: 3, Field: "Trade Amount", Value: "abc", Err: errors.New("invalid syntax")}
	assert.ErrorIs(t, err, ErrSchema)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, `schema: row 3 field "Trade Amount" value "abc": invalid syntax`, err.Error())

	header := &SchemaError{Field: "Asset Id", Err: errors.New("missing")}
	assert.Equal(t, `schema: field "Asset Id": missing`, header.Error())
}
