package rates

import (
	"context"
	"fmt"
	"github.com/go-kit/log"
	"github.com/robfig/cron/v3"
)

// Refresher anything holding rates that can be refreshed
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Schedule refreshes r on the given cron spec, either 5-field standard syntax or a
// descriptor such as "@every 1h". The schedule stops when ctx is done.
// An empty spec schedules nothing and returns a nil Cron.
func Schedule(ctx context.Context, spec string, r Refresher, logger log.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		logger.Log("msg", "scheduled refresh")
		if err := r.Refresh(ctx); err != nil {
			// keep the schedule, the next run may succeed
			logger.Log("msg", "scheduled refresh failed", "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parsing refresh schedule [%v]: %w", spec, err)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Log("msg", "refresh schedule stopped")
	}()

	return c, nil
}
