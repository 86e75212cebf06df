package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestClient(closes closesFunc) *Client {
	c := NewClient(zerolog.Nop())
	c.closes = closes
	return c
}

func TestLatestClose(t *testing.T) {
	var asked string
	c := newTestClient(func(symbol string) ([]float64, error) {
		asked = symbol
		return []float64{101.5, 102.25}, nil
	})

	q := c.LatestClose(context.Background(), "ASML.AS")
	assert.True(t, q.OK())
	assert.Equal(t, 102.25, q.Value)
	assert.Equal(t, "ASML.AS", asked)
}

func TestLatestClose_Failures(t *testing.T) {
	tests := []struct {
		name   string
		closes closesFunc
		want   domain.LookupFailure
	}{
		{
			name:   "transport error",
			closes: func(string) ([]float64, error) { return nil, errors.New("dial tcp: timeout") },
			want:   domain.FailureTransport,
		},
		{
			name:   "no bars",
			closes: func(string) ([]float64, error) { return nil, nil },
			want:   domain.FailureNoData,
		},
		{
			name:   "zero close",
			closes: func(string) ([]float64, error) { return []float64{0}, nil },
			want:   domain.FailureInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestClient(tt.closes).LatestClose(context.Background(), "X")
			assert.False(t, q.OK())
			assert.Equal(t, tt.want, q.Reason)
			assert.Error(t, q.Err)
		})
	}
}

func TestLatestClose_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newTestClient(func(string) ([]float64, error) {
		<-release
		return []float64{1}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	q := c.LatestClose(ctx, "SLOW")
	assert.Equal(t, domain.FailureTransport, q.Reason)
	assert.ErrorIs(t, q.Err, context.DeadlineExceeded)
}

func TestRate_InvertsPair(t *testing.T) {
	var asked string
	c := newTestClient(func(symbol string) ([]float64, error) {
		asked = symbol
		return []float64{1.25}, nil
	})

	q := c.Rate(context.Background(), "USD", "EUR")
	assert.True(t, q.OK())
	assert.InDelta(t, 0.8, q.Value, 1e-12)
	assert.Equal(t, "EURUSD=X", asked)
}

func TestRate_SameCurrency(t *testing.T) {
	c := newTestClient(func(string) ([]float64, error) {
		t.Fatal("no lookup expected")
		return nil, nil
	})

	q := c.Rate(context.Background(), "EUR", "eur")
	assert.Equal(t, 1.0, q.Value)
}

func TestRate_Failure(t *testing.T) {
	c := newTestClient(func(string) ([]float64, error) { return nil, errors.New("boom") })

	q := c.Rate(context.Background(), "USD", "EUR")
	assert.False(t, q.OK())
	assert.Equal(t, domain.FailureTransport, q.Reason)
}
