package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visatrack/internal/fetch"
	"visatrack/pkg/contracts/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) byStatus(status string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func periodsOf(year int, months ...time.Month) []domain.Period {
	var ps []domain.Period
	for _, m := range months {
		ps = append(ps, domain.Period{Month: m, Year: year})
	}
	return ps
}

func TestBackfillRunPreservesOrderAndSkipsGaps(t *testing.T) {
	loader := func(ctx context.Context, p domain.Period) ([]domain.Record, error) {
		switch p.Month {
		case time.February:
			return nil, fmt.Errorf("fetch: %w", fetch.ErrNotPublished)
		case time.March:
			return nil, errors.New("transient network failure")
		default:
			return []domain.Record{{Category: domain.CategoryEB2, DateToken: "01MAR24"}}, nil
		}
	}

	pub := &recordingPublisher{}
	b := NewBackfill(loader, 3, pub, nil)

	got, err := b.Run(context.Background(), periodsOf(2024, time.January, time.February, time.March, time.April))
	require.NoError(t, err)

	// February (unpublished) and March (failed) are gaps; January and
	// April keep their relative order despite parallel execution.
	require.Len(t, got, 2)
	assert.Equal(t, time.January, got[0].Period.Month)
	assert.Equal(t, time.April, got[1].Period.Month)

	assert.Len(t, pub.byStatus(StatusExtracted), 2)
	assert.Len(t, pub.byStatus(StatusNoData), 1)
	assert.Len(t, pub.byStatus(StatusFailed), 1)
}

func TestBackfillRunSharesRunID(t *testing.T) {
	loader := func(ctx context.Context, p domain.Period) ([]domain.Record, error) {
		return nil, nil
	}
	pub := &recordingPublisher{}
	b := NewBackfill(loader, 2, pub, nil)

	_, err := b.Run(context.Background(), periodsOf(2024, time.January, time.February))
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.NotEmpty(t, pub.events)
	runID := pub.events[0].RunID
	for _, e := range pub.events {
		assert.Equal(t, runID, e.RunID)
	}
}

func TestBackfillRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := func(ctx context.Context, p domain.Period) ([]domain.Record, error) {
		return []domain.Record{}, nil
	}
	b := NewBackfill(loader, 1, nil, nil)

	_, err := b.Run(ctx, periodsOf(2024, time.January))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackfillRunNilPublisher(t *testing.T) {
	loader := func(ctx context.Context, p domain.Period) ([]domain.Record, error) {
		return []domain.Record{{Category: domain.CategoryEB1}}, nil
	}
	b := NewBackfill(loader, 1, nil, nil)

	got, err := b.Run(context.Background(), periodsOf(2024, time.June))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
