package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", Errorf(KindRateFetch, cause, "Unable get currency rates from server"))

	assert.Equal(t, KindRateFetch, KindOf(err))
	assert.Equal(t, "Unable get currency rates from server", MessageOf(err))
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, KindInternal, KindOf(cause))
	assert.Equal(t, "connection refused", MessageOf(cause))
}

func TestKind_UserInput(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindInternal, false},
		{KindRateFetch, false},
		{KindUnknownTicker, false},
		{KindUnrecognizedCurrency, true},
		{KindSameCurrency, true},
		{KindInvalidAmount, true},
		{KindBadCommand, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.UserInput())
		})
	}
}

func TestRate_Cents(t *testing.T) {
	assert.Equal(t, Rate(0.9), Rate(0.9).Cents())
	assert.Equal(t, Rate(91.24), Rate(91.2399).Cents())
	assert.Equal(t, Rate(0), Rate(0.0001).Cents())
	assert.Equal(t, "1.50", Rate(1.5).String())
}

func TestNewAliases(t *testing.T) {
	aliases := NewAliases(map[string]string{"Dollar": "usd", "ЕВРО": "EUR"})

	assert.Equal(t, Aliases{"dollar": "USD", "евро": "EUR"}, aliases)
}
