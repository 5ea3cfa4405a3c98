package exchange

import (
	"context"
	"errors"
	"go-currency-bot/domain"
	"math"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("amount is not finite")

// Service interface for converting an amount of one currency into another
type Service interface {
	Convert(ctx context.Context, request domain.Request) (domain.Conversion, error)
}

// Resolver resolves currency names and looks up rates, see rates.Table
type Resolver interface {
	Currency(name string) (domain.Currency, error)
	Rate(ticker domain.Currency) (domain.Rate, error)
}

// service converts using the rates currently held by a Resolver
type service struct {
	// resolver to resolve names and look up rates. Must be concurrency-safe.
	resolver Resolver
}

// NewService constructs a valid Service
func NewService(r Resolver) Service {
	return &service{
		resolver: r,
	}
}

// Convert computes how much of the sell currency buys the requested amount of the buy currency.
// It reads the resolver's current rates and never refreshes them.
func (s *service) Convert(_ context.Context, request domain.Request) (domain.Conversion, error) {
	if strings.EqualFold(request.Buy, request.Sell) {
		return domain.Conversion{}, domain.Errorf(domain.KindSameCurrency, nil, "Sell and Buy currencies can not be the same!")
	}

	amount, err := strconv.ParseFloat(request.Amount, 64)
	if err == nil && (math.IsInf(amount, 0) || math.IsNaN(amount)) {
		err = errNotFinite
	}
	if err != nil {
		return domain.Conversion{}, domain.Errorf(domain.KindInvalidAmount, err, "Amount = %v is not valid number!", request.Amount)
	}

	buy, err := s.resolver.Currency(request.Buy)
	if err != nil {
		return domain.Conversion{}, err
	}
	sell, err := s.resolver.Currency(request.Sell)
	if err != nil {
		return domain.Conversion{}, err
	}

	buyRate, err := s.resolver.Rate(buy)
	if err != nil {
		return domain.Conversion{}, err
	}
	sellRate, err := s.resolver.Rate(sell)
	if err != nil {
		return domain.Conversion{}, err
	}
	if buyRate == 0 {
		return domain.Conversion{}, domain.Errorf(domain.KindRateFetch, nil, "Rate for %v is too small to convert", buy)
	}

	sellAmount := float64(sellRate) / float64(buyRate) * amount

	result := domain.Conversion{
		Buy:        buy,
		Sell:       sell,
		Amount:     request.Amount,
		SellAmount: strconv.FormatFloat(sellAmount, 'f', 2, 64),
	}

	return result, nil
}
