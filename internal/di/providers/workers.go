package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/logger"
)

// SessionSweepJob periodically drops expired session entries.
type SessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionSweepJob provides the periodic session sweep job.
func ProvideSessionSweepJob(i do.Injector) (*SessionSweepJob, error) {
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if count := sessions.Sweep(); count > 0 {
					log.Debug("Session sweep completed", "deleted", count, "live", sessions.Len())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session sweep job started", "interval", sessionSweepInterval)

	return &SessionSweepJob{cancel: cancel}, nil
}
