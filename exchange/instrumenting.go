package exchange

import (
	"context"
	"go-currency-bot/domain"
	"go-currency-bot/metrics"
)

// instrumentingService decorates an exchange.Service counting results by error kind
type instrumentingService struct {
	next Service
}

// NewInstrumentingService returns a new instrumenting Service
func NewInstrumentingService(s Service) Service {
	return &instrumentingService{next: s}
}

func (s *instrumentingService) Convert(ctx context.Context, request domain.Request) (domain.Conversion, error) {
	c, err := s.next.Convert(ctx, request)
	kind := "ok"
	if err != nil {
		kind = domain.KindOf(err).String()
	}
	metrics.ConversionsTotal.WithLabelValues(kind).Inc()
	return c, err
}
