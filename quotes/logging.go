package quotes

import (
	"context"
	"github.com/go-kit/log"
	"go-currency-bot/domain"
	"time"
)

// loggingService decorates a quotes.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Latest(ctx context.Context) (rates domain.Rates, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "latest",
			"tickers", len(rates),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Latest(ctx)
}
