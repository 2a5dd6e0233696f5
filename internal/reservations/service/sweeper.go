package service

import (
	"context"
	"time"

	"innkeeper/internal/reservations/repository"
	"innkeeper/pkg/config"
	"innkeeper/pkg/logger"
)

// Per-sweep budget. A sweep touches at most the currently occupied rooms, so
// a minute is generous even for large properties.
const sweepTimeout = time.Minute

// Sweeper periodically reconciles the derived occupied flag against the
// ledger, clearing rooms whose stays have ended. A missed or failed tick is
// harmless: the check is stateless and the next tick repairs the same state.
type Sweeper struct {
	rooms  repository.RoomRepository
	ledger repository.BookingLedger
	every  time.Duration
	log    *logger.Logger
	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewSweeper(rooms repository.RoomRepository, ledger repository.BookingLedger, cfg *config.Config) *Sweeper {
	return &Sweeper{
		rooms:  rooms,
		ledger: ledger,
		every:  cfg.SweepInterval,
		log:    cfg.Log,
		now:    time.Now,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.log.Info("Starting occupancy sweeper", "interval", s.every)
	go s.run()
}

// Stop signals the sweeper and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.log.Info("Occupancy sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Sweep panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	released, err := s.SweepOnce(ctx)
	if err != nil {
		s.log.Error("Sweep failed, will retry on next tick", "error", err)
		return
	}
	if released > 0 {
		s.log.Info("Sweep released rooms", "count", released)
	}
}

// SweepOnce clears the occupied flag on every room with no active ledger
// entry. It only ever flips occupied rooms to free; setting the flag happens
// on the reserve path. Safe to call repeatedly.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	occupied, err := s.rooms.FindOccupied(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, room := range occupied {
		active, err := s.ledger.HasActiveEntry(ctx, room.ID, s.now())
		if err != nil {
			return released, err
		}
		if active {
			continue
		}
		if err := s.rooms.SetOccupied(ctx, room.ID, false); err != nil {
			return released, err
		}
		released++
	}

	return released, nil
}
