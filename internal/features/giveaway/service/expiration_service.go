package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/common/logger"
	"cs2-giveaway-backend/internal/features/diag"
	"cs2-giveaway-backend/internal/features/giveaway/models"
	"cs2-giveaway-backend/internal/features/giveaway/repository"
)

const maxRetries = 3

// ExpirationService is the single authoritative owner of the active->ended
// transition. Clients still compute a countdown locally, but only this
// sweep persists the transition and draws winners, guarded by a processing
// claim and a status-conditional update so concurrent sweeps stay
// exactly-once.
type ExpirationService struct {
	ctx       context.Context
	cancel    context.CancelFunc
	repo      repository.GiveawayRepository
	config    *config.Config
	announcer Announcer
	diag      *diag.Log
	wg        sync.WaitGroup
	nowFunc   func() time.Time
}

func NewExpirationService(repo repository.GiveawayRepository, cfg *config.Config, announcer Announcer, diagLog *diag.Log) *ExpirationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpirationService{
		ctx:       ctx,
		cancel:    cancel,
		repo:      repo,
		config:    cfg,
		announcer: announcer,
		diag:      diagLog,
		nowFunc:   time.Now,
	}
}

func (s *ExpirationService) Start() {
	interval := time.Duration(s.config.Giveaway.SweepIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	logger.Info().Dur("interval", interval).Msg("Starting expiration sweep")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.ProcessExpiredGiveaways(s.ctx); err != nil {
					logger.Error().Err(err).Msg("Error processing expired giveaways")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *ExpirationService) Stop() {
	logger.Info().Msg("Stopping expiration sweep")
	s.cancel()
	s.wg.Wait()
	logger.Info().Msg("Expiration sweep stopped")
}

// ProcessExpiredGiveaways scans active giveaways and ends the expired ones.
func (s *ExpirationService) ProcessExpiredGiveaways(ctx context.Context) error {
	ids, err := s.repo.GetActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active giveaways: %w", err)
	}

	now := s.nowFunc()
	for _, id := range ids {
		giveaway, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrGiveawayNotFound {
				continue
			}
			logger.Error().Err(err).Str("giveaway_id", id).Msg("Failed to read giveaway during sweep")
			continue
		}
		if !giveaway.HasEnded(now) {
			continue
		}

		if !s.repo.TryClaimProcessing(ctx, id) {
			// Another sweep instance holds the claim.
			continue
		}

		s.wg.Add(1)
		go func(id string) {
			defer s.wg.Done()
			// Release with a fresh context: during shutdown the sweep
			// context is already canceled, and a claim left behind would
			// block this giveaway until the claim TTL runs out.
			defer s.repo.ReleaseProcessing(context.Background(), id)

			if err := s.processWithRetry(ctx, id); err != nil {
				logger.Error().Err(err).Str("giveaway_id", id).Msg("Failed to process expired giveaway")
				s.diag.Record(ctx, "expiration", fmt.Sprintf("giveaway %s: %v", id, err))
			}
		}(id)
	}

	return nil
}

func (s *ExpirationService) processWithRetry(ctx context.Context, id string) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := s.processGiveaway(ctx, id); err != nil {
			lastErr = err
			time.Sleep(time.Second * time.Duration(attempt))
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (s *ExpirationService) processGiveaway(ctx context.Context, id string) error {
	// Re-read under the claim; the record may have been force-ended or
	// deleted since the scan.
	giveaway, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil
		}
		return fmt.Errorf("failed to get giveaway: %w", err)
	}

	if !giveaway.Tick(s.nowFunc(), s.config.Giveaway.OrganizerID) {
		return nil
	}

	if err := s.repo.UpdateGuarded(ctx, giveaway, models.GiveawayStatusActive); err != nil {
		if err == repository.ErrStatusConflict {
			// Someone already persisted the transition.
			return nil
		}
		return fmt.Errorf("failed to persist transition: %w", err)
	}

	logger.Info().
		Str("giveaway_id", id).
		Int("participants", len(giveaway.Participants)).
		Strs("winners", giveaway.Winners).
		Msg("Giveaway ended")

	if s.announcer != nil {
		if err := s.announcer.AnnounceWinners(ctx, giveaway); err != nil {
			// Announcement failure must not fail the transition.
			logger.Error().Err(err).Str("giveaway_id", id).Msg("Failed to announce winners")
			s.diag.Record(ctx, "announce", fmt.Sprintf("giveaway %s: %v", id, err))
		}
	}

	return nil
}
