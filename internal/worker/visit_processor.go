package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ezla-online/portal/internal/domain/model"
)

// VisitBooker exposes the booking operations required by the worker.
type VisitBooker interface {
	PendingVisits(ctx context.Context, limit int) ([]model.Case, error)
	Book(ctx context.Context, caseID string) error
}

// VisitProcessor books visits for submitted cases concurrently. Jobs arrive
// either from the payment flow through Schedule or from periodic polling of
// due cases.
type VisitProcessor struct {
	booker       VisitBooker
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs    chan string
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// NewVisitProcessor constructs the visit booking worker pool.
func NewVisitProcessor(booker VisitBooker, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *VisitProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &VisitProcessor{
		booker:       booker,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan string, batchSize*workers),
	}
}

// Schedule queues a booking without blocking. It reports false when the
// queue is full; the poller picks the case up once its lease expires.
func (p *VisitProcessor) Schedule(caseID string) bool {
	select {
	case p.jobs <- caseID:
		return true
	default:
		return false
	}
}

// Start launches background processing.
func (p *VisitProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.poll(runCtx)
}

// Stop cancels processing and waits for all workers to finish.
func (p *VisitProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *VisitProcessor) poll(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *VisitProcessor) fetchAndDispatch(ctx context.Context) {
	cases, err := p.booker.PendingVisits(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch cases for visit booking failed", slog.String("error", err.Error()))
		return
	}
	for _, c := range cases {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- c.ID:
		}
	}
}

func (p *VisitProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case caseID := <-p.jobs:
			if err := p.booker.Book(ctx, caseID); err != nil {
				p.logger.Warn("visit booking failed", slog.String("case_id", caseID), slog.String("error", err.Error()))
			}
		}
	}
}
