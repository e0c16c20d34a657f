package kbsave

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ptolstoi/kbsave/slcb"
)

// AutoScanner keeps the cache warm for the newest save slot so the first
// request after the game saves does not pay for the decode.
type AutoScanner struct {
	app      *app
	interval time.Duration

	lastSlot    string
	lastModTime time.Time
}

func newAutoScanner(app *app, interval time.Duration) *AutoScanner {
	return &AutoScanner{app: app, interval: interval}
}

// Run scans every interval until ctx is done. Scan failures are logged and
// retried on the next tick.
func (scanner *AutoScanner) Run(ctx context.Context) error {
	log.Info().Dur("interval", scanner.interval).Str("root", scanner.app.config.SavesRoot).
		Msg("[AutoScanner.Run] started")

	ticker := time.NewTicker(scanner.interval)
	defer ticker.Stop()

	for {
		if _, err := scanner.scanOnce(ctx); err != nil {
			log.Warn().Err(err).Msg("[AutoScanner.Run] scan failed")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("[AutoScanner.Run] stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// scanOnce decodes the newest slot if it changed since the last scan. It
// reports whether a scan ran.
func (scanner *AutoScanner) scanOnce(ctx context.Context) (bool, error) {
	slot, err := slcb.Latest(scanner.app.config.SavesRoot)
	if err != nil {
		return false, err
	}
	if slot.Name == scanner.lastSlot && !slot.ModTime.After(scanner.lastModTime) {
		return false, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		_, _, err := scanner.app.slotShops(groupCtx, slot, nil)
		return err
	})
	group.Go(func() error {
		_, err := scanner.app.slotCampaign(slot)
		return err
	})
	if err := group.Wait(); err != nil {
		return false, err
	}

	scanner.lastSlot = slot.Name
	scanner.lastModTime = slot.ModTime

	log.Info().Str("slot", slot.Name).Time("modTime", slot.ModTime).Msg("[AutoScanner.scanOnce] slot scanned")
	return true, nil
}
