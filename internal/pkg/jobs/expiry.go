package jobs

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/localmart/localmart/internal/pkg/env"
	"github.com/localmart/localmart/internal/pkg/subscription"
)

const defaultSweepBatch = 100

// ExpirySweeper periodically degrades users whose paid subscriptions have
// lapsed. It is the time-based trigger in front of the limit engine's
// DegradeToFree.
type ExpirySweeper struct {
	svc     *subscription.Service
	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewExpirySweeper creates a sweeper over the given limit service.
func NewExpirySweeper(svc *subscription.Service) *ExpirySweeper {
	return &ExpirySweeper{
		svc:    svc,
		stopCh: make(chan struct{}),
	}
}

// Start launches the background sweep loop. Interval comes from
// SUBSCRIPTION_SWEEP_MINUTES, default 60.
func (s *ExpirySweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.stopCh = make(chan struct{})
	s.running = true

	interval := 60
	if v, err := strconv.Atoi(env.GetEnv("SUBSCRIPTION_SWEEP_MINUTES", "60")); err == nil && v > 0 {
		interval = v
	}
	s.ticker = time.NewTicker(time.Duration(interval) * time.Minute)

	log.Info("[ExpirySweeper] Starting subscription expiry sweep")
	s.wg.Add(1)
	go s.loop()
}

// Stop halts the sweep loop and waits for the current pass to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.stopCh)
	s.wg.Wait()
	log.Info("[ExpirySweeper] Stopped")
}

func (s *ExpirySweeper) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep pass.
func (s *ExpirySweeper) RunOnce() {
	n, err := s.svc.ExpireDue(defaultSweepBatch)
	if err != nil {
		log.Errorf("[ExpirySweeper] sweep failed after %d subscriptions: %v", n, err)
		return
	}
	if n > 0 {
		log.Infof("[ExpirySweeper] degraded %d expired subscriptions", n)
	}
}
