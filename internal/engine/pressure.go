package engine

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// loadSample mirrors what a Node.js host would read from its event-loop
// delay histogram: p95 in milliseconds and a utilization fraction in [0,1].
// Go has no event loop to sample directly, so LoadMonitor approximates it
// by timing how long a zero-work goroutine takes to get scheduled — the Go
// runtime's closest analogue to event-loop lag — and using the fraction of
// probes delayed by more than 1ms as the utilization estimate.
type loadSample struct {
	p95         float64
	utilization float64
}

var (
	schedulerDelay = promauto.NewSummary(prometheus.SummaryOpts{
		Name:       "room_scheduler_delay_seconds",
		Help:       "Observed delay between a goroutine's intended and actual run time",
		Objectives: map[float64]float64{0.5: 0.05, 0.95: 0.01, 0.99: 0.001},
		MaxAge:     10 * time.Second,
	})

	degradedRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "room_degraded_total",
		Help: "Number of rooms currently running at the degraded broadcast rate",
	})
)

// LoadMonitor is the process-wide, read-only-from-rooms singleton that the
// Host-Pressure Controller consults. It is lazily started on first use and
// never torn down; failure to start must not prevent rooms from running, in
// which case Sample reports zeros and no controller ever degrades.
type LoadMonitor struct {
	mu          sync.Mutex
	lastSample  loadSample
	started     bool
}

var (
	globalMonitor     *LoadMonitor
	globalMonitorOnce sync.Once
)

// GlobalLoadMonitor returns the process singleton, starting its sampling
// goroutine on first call.
func GlobalLoadMonitor() *LoadMonitor {
	globalMonitorOnce.Do(func() {
		globalMonitor = &LoadMonitor{}
		globalMonitor.start()
	})
	return globalMonitor
}

func (m *LoadMonitor) start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go m.sampleLoop()
}

// sampleLoop runs forever, probing scheduler latency roughly every 200ms
// and refreshing the rolling p95/utilization estimate every 5 seconds.
func (m *LoadMonitor) sampleLoop() {
	probe := time.NewTicker(200 * time.Millisecond)
	defer probe.Stop()
	refresh := time.NewTicker(5 * time.Second)
	defer refresh.Stop()

	var busy, total int64

	for {
		select {
		case <-probe.C:
			start := time.Now()
			done := make(chan struct{})
			go func() { close(done) }()
			<-done
			delay := time.Since(start)
			schedulerDelay.Observe(delay.Seconds())

			total++
			if delay > time.Millisecond {
				busy++
			}
		case <-refresh.C:
			p95 := fetchSummaryQuantile(schedulerDelay, 0.95)
			util := 0.0
			if total > 0 {
				util = float64(busy) / float64(total)
			}
			m.mu.Lock()
			m.lastSample = loadSample{p95: p95 * 1000, utilization: util}
			m.mu.Unlock()
			busy, total = 0, 0
		}
	}
}

// fetchSummaryQuantile reads back a quantile the summary itself just
// recorded, via its Prometheus wire representation, to avoid keeping a
// second tracking structure alongside the promauto metric.
func fetchSummaryQuantile(s prometheus.Summary, quantile float64) float64 {
	var metric dto.Metric
	if err := s.Write(&metric); err != nil {
		return 0
	}
	for _, q := range metric.GetSummary().GetQuantile() {
		if q.GetQuantile() == quantile {
			return q.GetValue()
		}
	}
	return 0
}

// Sample returns the most recently refreshed load reading. Before the first
// refresh interval elapses it reports zeros, which keeps the controller in
// its normal state.
func (m *LoadMonitor) Sample() (p95Ms, utilization float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSample.p95, m.lastSample.utilization
}

// PressureState is the Host-Pressure Controller's hysteresis state.
type PressureState int

const (
	PressureNormal PressureState = iota
	PressureDegraded
)

// Sampler is the load source a HostPressureController observes. LoadMonitor
// implements it for production use; tests supply a fake for deterministic
// hysteresis behavior without waiting on the real sampling goroutine.
type Sampler interface {
	Sample() (p95Ms, utilization float64)
}

// HostPressureController drives one room's broadcast rate between
// NetworkUpdateRateHigh and NetworkUpdateRateLow based on consecutive
// overload/recover samples from a Sampler. Physics tick rate is never
// affected.
type HostPressureController struct {
	monitor Sampler
	state   PressureState

	overloadStreak int
	recoverStreak  int
}

// NewHostPressureController builds a controller observing the given
// sampler, starting in the normal state.
func NewHostPressureController(monitor Sampler) *HostPressureController {
	return &HostPressureController{monitor: monitor}
}

// Sample takes one reading and advances the hysteresis state machine. It
// returns true if the broadcast rate should change this call, and the new
// state.
func (c *HostPressureController) Sample() (changed bool, state PressureState) {
	p95, util := c.monitor.Sample()
	overloaded := p95 > 8 || util > 0.90
	recovered := p95 < 6 && util < 0.70

	switch c.state {
	case PressureNormal:
		c.recoverStreak = 0
		if overloaded {
			c.overloadStreak++
		} else {
			c.overloadStreak = 0
		}
		if c.overloadStreak >= 3 {
			c.state = PressureDegraded
			c.overloadStreak = 0
			degradedRooms.Inc()
			return true, c.state
		}
	case PressureDegraded:
		c.overloadStreak = 0
		if recovered {
			c.recoverStreak++
		} else {
			c.recoverStreak = 0
		}
		if c.recoverStreak >= 5 {
			c.state = PressureNormal
			c.recoverStreak = 0
			degradedRooms.Dec()
			return true, c.state
		}
	}
	return false, c.state
}

// BroadcastRate returns the Hz the room should broadcast at for the current
// state.
func (c *HostPressureController) BroadcastRate() int {
	if c.state == PressureDegraded {
		return NetworkUpdateRateLow
	}
	return NetworkUpdateRateHigh
}
