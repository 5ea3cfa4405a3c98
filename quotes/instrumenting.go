package quotes

import (
	"context"
	"go-currency-bot/domain"
	"go-currency-bot/metrics"
	"time"
)

// instrumentingService decorates a quotes.Service with prometheus metrics
type instrumentingService struct {
	next Service
}

// NewInstrumentingService returns a new instrumenting Service
func NewInstrumentingService(s Service) Service {
	return &instrumentingService{next: s}
}

func (s *instrumentingService) Latest(ctx context.Context) (rates domain.Rates, err error) {
	defer func(begin time.Time) {
		metrics.ObserveFetch(begin, err)
	}(time.Now())
	return s.next.Latest(ctx)
}
