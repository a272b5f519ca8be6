// Package poller implements the client-side polling contract for generation
// status: a single-threaded read loop at a fixed interval that stops on the
// first terminal status or on caller cancellation.
package poller

import (
	"context"
	"time"

	dbm "tripforge/internal/models/db_models"
	"tripforge/internal/models/response_models"
)

// StatusReader is the read-only slice of the session manager the poller needs.
type StatusReader interface {
	GetStatus(ctx context.Context, comparisonId string) (*response_models.ComparisonResponse, error)
}

type StatusPoller struct {
	reader   StatusReader
	interval time.Duration
}

func New(reader StatusReader, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StatusPoller{reader: reader, interval: interval}
}

// WaitForTerminal reads the comparison status until the generation round
// reaches a terminal outcome (ready or failed), returning the first terminal
// snapshot. The loop has no side effects on the comparison; cancelling ctx
// stops it between reads.
func (p *StatusPoller) WaitForTerminal(ctx context.Context, comparisonId string) (*response_models.ComparisonResponse, error) {
	for {
		comparison, err := p.reader.GetStatus(ctx, comparisonId)
		if err != nil {
			return nil, err
		}
		if dbm.IsTerminalGenerationStatus(comparison.Status) {
			return comparison, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}
	}
}
