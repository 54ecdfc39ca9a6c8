package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Scheduler starts repeating tasks. Tests inject a fake to observe active timers.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// Task is a scheduled repeating job.
type Task interface {
	Stop()
}

// TickerScheduler runs tasks on time.Ticker goroutines.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.ticker.C:
			fn()
		case <-t.done:
			return
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// Poller owns at most one polling task.
type Poller struct {
	mu        sync.Mutex
	scheduler Scheduler
	task      Task
}

// NewPoller builds a poller on top of the given scheduler.
func NewPoller(scheduler Scheduler) *Poller {
	if scheduler == nil {
		scheduler = TickerScheduler{}
	}
	return &Poller{scheduler: scheduler}
}

// Restart cancels the running task and, when enabled, schedules fire every
// frequency seconds.
func (p *Poller) Restart(enabled bool, frequency string, fire func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if !enabled {
		return nil
	}
	interval, err := ParseFrequency(frequency)
	if err != nil {
		return err
	}
	p.task = p.scheduler.Every(interval, fire)
	return nil
}

// Stop cancels the running task. Stopping an idle poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Active reports whether a task is scheduled.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.task != nil
}

func (p *Poller) stopLocked() {
	if p.task != nil {
		p.task.Stop()
		p.task = nil
	}
}

// ParseFrequency converts a frequency in seconds, given as a numeric string, into
// an interval.
func ParseFrequency(frequency string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(frequency), 64)
	if err != nil {
		return 0, fmt.Errorf("dashboard: invalid polling frequency %q: %w", frequency, err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return 0, fmt.Errorf("dashboard: polling frequency must be positive, got %q", frequency)
	}
	if secs > maxFrequencySeconds {
		return 0, fmt.Errorf("dashboard: polling frequency %q is out of range", frequency)
	}
	interval := time.Duration(secs * float64(time.Second))
	if interval <= 0 {
		return 0, fmt.Errorf("dashboard: polling frequency %q is below one nanosecond", frequency)
	}
	return interval, nil
}

// maxFrequencySeconds keeps the interval inside time.Duration.
const maxFrequencySeconds = float64(math.MaxInt64) / float64(time.Second)
