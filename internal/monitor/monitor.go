package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
)

const (
	DefaultBinInterval    = 5 * time.Second
	DefaultReportInterval = 15 * time.Second
)

// Options configures a Monitor. Zero values take the defaults.
type Options struct {
	BinInterval    time.Duration
	ReportInterval time.Duration
	FeedCapacity   int
	AlertTTL       time.Duration

	// OnBins is called after every bin poll with the held snapshot
	OnBins func(bins []models.BinResponse, source string, err error)
	// OnAlert is called once per newly raised alert
	OnAlert func(alert models.Alert)
}

// Monitor polls bins and reports on independent timers, diffs consecutive
// bin snapshots and keeps the raised alerts in a feed
type Monitor struct {
	bins    *Snapshot[[]models.BinResponse]
	reports *Snapshot[[]models.ReportResponse]
	feed    *AlertFeed
	opts    Options
	now     func() time.Time

	pollMu sync.Mutex // serializes bin polls so each diff sees a consistent previous snapshot

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a monitor. reports may be nil to poll bins only.
func New(bins FetchFunc[[]models.BinResponse], reports FetchFunc[[]models.ReportResponse], opts Options) *Monitor {
	if opts.BinInterval <= 0 {
		opts.BinInterval = DefaultBinInterval
	}
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = DefaultReportInterval
	}

	m := &Monitor{
		bins: NewSnapshot(bins),
		feed: NewAlertFeed(opts.FeedCapacity, opts.AlertTTL),
		opts: opts,
		now:  time.Now,
	}
	if reports != nil {
		m.reports = NewSnapshot(reports)
	}
	return m
}

// Start runs an immediate poll and then the tickers until ctx is cancelled or Stop is called
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true

	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.loop(ctx, m.opts.BinInterval, func(ctx context.Context) { m.PollBins(ctx) })

	if m.reports != nil {
		m.wg.Add(1)
		go m.loop(ctx, m.opts.ReportInterval, func(ctx context.Context) { m.PollReports(ctx) })
	}

	log.Printf("🔴 Live monitoring started (bins every %s, reports every %s)", m.opts.BinInterval, m.opts.ReportInterval)
}

// Stop cancels the tickers and waits for in-flight polls
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
	log.Println("⚪ Live monitoring stopped")
}

func (m *Monitor) loop(ctx context.Context, interval time.Duration, poll func(context.Context)) {
	defer m.wg.Done()

	poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll(ctx)
		}
	}
}

// PollBins refreshes the bin snapshot and returns the alerts raised by the change.
// No alerts are raised for the first snapshot or when the refresh failed.
func (m *Monitor) PollBins(ctx context.Context) []models.Alert {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()

	previous, _, hadPrevious := m.bins.Get()
	current, ok, err := m.bins.Refresh(ctx)
	if err != nil {
		log.Printf("⚠️  Bin poll failed, keeping last known data: %v", err)
	}
	if m.opts.OnBins != nil && ok {
		m.opts.OnBins(current, m.bins.Source(), err)
	}
	if err != nil || !hadPrevious {
		return []models.Alert{}
	}

	alerts := services.EvaluateAlerts(previous, current, m.now())
	m.feed.Add(alerts...)
	if m.opts.OnAlert != nil {
		for _, alert := range alerts {
			m.opts.OnAlert(alert)
		}
	}
	return alerts
}

// PollReports refreshes the report snapshot
func (m *Monitor) PollReports(ctx context.Context) {
	if m.reports == nil {
		return
	}
	if _, _, err := m.reports.Refresh(ctx); err != nil {
		log.Printf("⚠️  Report poll failed, keeping last known data: %v", err)
	}
}

// Bins returns the last good bin snapshot
func (m *Monitor) Bins() ([]models.BinResponse, time.Time, bool) {
	return m.bins.Get()
}

// Reports returns the last good report snapshot
func (m *Monitor) Reports() ([]models.ReportResponse, time.Time, bool) {
	if m.reports == nil {
		return nil, time.Time{}, false
	}
	return m.reports.Get()
}

// Alerts is the feed of raised alerts
func (m *Monitor) Alerts() *AlertFeed {
	return m.feed
}
