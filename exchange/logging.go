package exchange

import (
	"context"
	"github.com/go-kit/log"
	"go-currency-bot/domain"
	"time"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(ctx context.Context, request domain.Request) (c domain.Conversion, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"buy", request.Buy,
			"sell", request.Sell,
			"amount", request.Amount,
			"buy_ticker", c.Buy,
			"sell_ticker", c.Sell,
			"sell_amount", c.SellAmount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, request)
}
