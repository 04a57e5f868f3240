package approvaltoken

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunSweeper deletes expired tokens every interval until ctx is cancelled.
func RunSweeper(ctx context.Context, svc Service, interval time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("approvaltoken.sweeper")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("token sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("token sweeper stopped")
			return
		case <-ticker.C:
			sweepOnce(ctx, svc, log)
		}
	}
}

func sweepOnce(ctx context.Context, svc Service, log *zap.Logger) {
	n, err := svc.SweepExpired(ctx)
	if err != nil {
		log.Error("sweep expired tokens failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("expired tokens swept", zap.Int64("count", n))
	}
}
