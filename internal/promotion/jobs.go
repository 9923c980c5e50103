package promotion

import (
	"context"
	"log/slog"
	"time"

	"reservio/pkg/logger"
)

// JobProcessor runs the expiry and promotion sweeps on timers so holds
// expire and freed windows reach the waitlist without manual triggers.
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
	log     *logger.Logger
}

type JobConfig struct {
	ExpirySweepInterval    time.Duration
	PromotionSweepInterval time.Duration
}

func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ExpirySweepInterval:    1 * time.Minute,
		PromotionSweepInterval: 5 * time.Minute,
	}
}

func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
		log:     logger.GetDefault(),
	}
}

func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.runExpirySweeps(ctx)
	go jp.runPromotionSweeps(ctx)
	jp.log.Info("background sweeps started",
		slog.Duration("expiry_interval", jp.config.ExpirySweepInterval),
		slog.Duration("promotion_interval", jp.config.PromotionSweepInterval),
	)
}

func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.log.Info("background sweeps stopped")
}

func (jp *JobProcessor) runExpirySweeps(ctx context.Context) {
	ticker := time.NewTicker(jp.config.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := jp.service.RunExpirySweep(ctx)
			if err != nil {
				jp.log.Error("expiry sweep failed", slog.String("error", err.Error()))
				continue
			}
			if result.Expired > 0 {
				jp.log.Info("expiry sweep",
					slog.Int("expired", result.Expired),
					slog.Int("promoted", result.Promoted),
				)
			}
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) runPromotionSweeps(ctx context.Context) {
	ticker := time.NewTicker(jp.config.PromotionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := jp.service.RunPromotionSweep(ctx)
			if err != nil {
				jp.log.Error("promotion sweep failed", slog.String("error", err.Error()))
				continue
			}
			if result.Promoted > 0 {
				jp.log.Info("promotion sweep",
					slog.Int("windows_checked", result.WindowsChecked),
					slog.Int("promoted", result.Promoted),
				)
			}
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
