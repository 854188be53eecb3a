package main

import (
	"context"
	"log"
	"time"

	"flowAdsBack/internal/invoices"
	"flowAdsBack/internal/timeutil"
)

const overdueSweepTimeout = 1 * time.Minute

// startOverdueSweeper marks pending invoices past their due date as
// overdue once at start and then every interval.
func startOverdueSweeper(ctx context.Context, svc *invoices.Service, interval time.Duration, infoLog, errorLog *log.Logger) {
	if svc == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, overdueSweepTimeout)
			n, err := svc.MarkOverdue(runCtx, timeutil.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("overdue sweeper: %v", err)
				}
			} else if n > 0 && infoLog != nil {
				infoLog.Printf("overdue sweeper: marked %d invoices overdue", n)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
