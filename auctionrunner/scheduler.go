package auctionrunner

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/registry"
	"github.com/tedsuo/ifrit"
)

const DefaultInterval = 4 * time.Second

type RoundRunner interface {
	Run(ctx context.Context, auctionID string) (*auctiontypes.Bid, error)
}

/*
Scheduler owns one worker process per active auction. A worker runs a round,
sleeps the interval and repeats until the auction completes or the worker is
signalled. Asking for a worker that already exists is a no-op, so however many
times an auction is started only one worker bids on it.
*/
type Scheduler struct {
	logger   lager.Logger
	clock    clock.Clock
	registry *registry.Registry
	round    RoundRunner
	interval time.Duration

	lock    *sync.Mutex
	workers map[string]registration
}

type registration struct {
	worker  *worker
	process ifrit.Process
}

func NewScheduler(
	logger lager.Logger,
	clock clock.Clock,
	registry *registry.Registry,
	round RoundRunner,
	interval time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		logger:   logger.Session("scheduler"),
		clock:    clock,
		registry: registry,
		round:    round,
		interval: interval,
		lock:     &sync.Mutex{},
		workers:  map[string]registration{},
	}
}

// EnsureRunning starts a worker for auctionID unless one is already
// registered. It reports whether a new worker was started.
func (s *Scheduler) EnsureRunning(auctionID string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.workers[auctionID]; ok {
		return false
	}

	w := &worker{
		logger:    s.logger.Session("worker", lager.Data{"auction-id": auctionID}),
		clock:     s.clock,
		registry:  s.registry,
		round:     s.round,
		interval:  s.interval,
		auctionID: auctionID,
		onExit:    s.deregister,
	}
	// the worker cannot deregister before this entry exists, since that
	// needs s.lock
	s.workers[auctionID] = registration{worker: w, process: ifrit.Background(w)}
	return true
}

func (s *Scheduler) IsRunning(auctionID string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, ok := s.workers[auctionID]
	return ok
}

func (s *Scheduler) Running() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	ids := make([]string, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop signals the auction's worker and waits for it to exit.
func (s *Scheduler) Stop(auctionID string) {
	s.lock.Lock()
	reg, ok := s.workers[auctionID]
	s.lock.Unlock()

	if !ok {
		return
	}
	reg.process.Signal(os.Interrupt)
	<-reg.process.Wait()
}

func (s *Scheduler) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	s.logger.Info("started")
	close(ready)

	<-signals
	s.logger.Info("stopping", lager.Data{"workers": len(s.Running())})

	wg := &sync.WaitGroup{}
	for _, id := range s.Running() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.Stop(id)
		}(id)
	}
	wg.Wait()

	s.logger.Info("stopped")
	return nil
}

func (s *Scheduler) deregister(w *worker) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.workers[w.auctionID].worker == w {
		delete(s.workers, w.auctionID)
	}
}

type worker struct {
	logger    lager.Logger
	clock     clock.Clock
	registry  *registry.Registry
	round     RoundRunner
	interval  time.Duration
	auctionID string
	onExit    func(*worker)
}

func (w *worker) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	w.logger.Info("started")
	defer w.logger.Info("exited")
	defer w.onExit(w)
	close(ready)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-signals:
			return nil
		default:
		}

		auction, err := w.registry.Get(ctx, w.auctionID)
		if err != nil {
			w.logger.Error("failed-to-fetch-auction", err)
			return err
		}

		switch auction.Status {
		case auctiontypes.StatusCompleted:
			w.logger.Info("auction-completed", lager.Data{"winner-name": auction.WinnerName})
			return nil
		case auctiontypes.StatusActive:
		default:
			w.logger.Info("auction-not-active", lager.Data{"status": auction.Status})
			return nil
		}

		_, err = w.round.Run(ctx, w.auctionID)
		if err != nil && !errors.Is(err, auctiontypes.ErrLearning) {
			w.logger.Error("round-failed", err)
			return err
		}

		timer := w.clock.NewTimer(w.interval)
		select {
		case <-timer.C():
		case <-signals:
			timer.Stop()
			return nil
		}
	}
}
