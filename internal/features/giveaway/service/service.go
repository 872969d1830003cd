package service

import (
	"context"
	"time"

	"cs2-giveaway-backend/internal/common/config"
	apperrors "cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/common/logger"
	"cs2-giveaway-backend/internal/features/giveaway/models"
	"cs2-giveaway-backend/internal/features/giveaway/repository"
)

const defaultDuration = time.Hour

type giveawayService struct {
	repo      repository.GiveawayRepository
	gate      SubscriptionChecker
	announcer Announcer
	config    *config.Config
	nowFunc   func() time.Time
}

func NewGiveawayService(repo repository.GiveawayRepository, gate SubscriptionChecker, announcer Announcer, cfg *config.Config) GiveawayService {
	return &giveawayService{
		repo:      repo,
		gate:      gate,
		announcer: announcer,
		config:    cfg,
		nowFunc:   time.Now,
	}
}

func (s *giveawayService) Create(ctx context.Context, input *models.GiveawayCreate) (*models.Giveaway, error) {
	now := s.nowFunc()

	endTime := input.EndTime
	if endTime == 0 {
		duration := time.Duration(input.DurationMS) * time.Millisecond
		if duration <= 0 {
			duration = defaultDuration
		}
		endTime = now.Add(duration).UnixMilli()
	}

	giveaway, err := models.NewGiveaway(input.PrizeList(), endTime, now)
	if err != nil {
		switch err {
		case models.ErrEmptyPrizes:
			return nil, apperrors.NewValidationError("prizes", "at least one prize is required")
		case models.ErrPastEndTime:
			return nil, apperrors.NewValidationError("end_time", "must be in the future")
		default:
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid giveaway")
		}
	}

	if err := s.repo.Create(ctx, giveaway); err != nil {
		return nil, apperrors.NewStoreError("create giveaway", err)
	}

	logger.Info().
		Str("giveaway_id", giveaway.ID).
		Int("prizes", len(giveaway.Prizes)).
		Time("ends_at", giveaway.EndsAt()).
		Msg("Giveaway created")

	if s.announcer != nil {
		if err := s.announcer.AnnounceCreated(ctx, giveaway); err != nil {
			// The channel post is best effort; the giveaway exists either way.
			logger.Error().Err(err).Str("giveaway_id", giveaway.ID).Msg("Failed to announce new giveaway")
		}
	}

	return giveaway, nil
}

func (s *giveawayService) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	giveaway, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, apperrors.NewGiveawayNotFoundError(id)
		}
		return nil, apperrors.NewStoreError("get giveaway", err)
	}
	return giveaway, nil
}

func (s *giveawayService) List(ctx context.Context) ([]*models.Giveaway, error) {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list giveaways", err)
	}
	return giveaways, nil
}

// Join adds userID to an active giveaway after consulting the subscription
// gate. The membership write is an atomic set append, so the join is
// idempotent and races between clients cannot drop participants. Joining an
// ended giveaway is a no-op returning the unchanged record.
func (s *giveawayService) Join(ctx context.Context, id, userID string) (*models.Giveaway, error) {
	giveaway, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if giveaway.Status != models.GiveawayStatusActive {
		return giveaway, nil
	}

	subscribed, warning, err := s.gate.CheckMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		logger.Warn().Str("user_id", userID).Msg(warning)
	}
	if !subscribed {
		return nil, apperrors.NewForbiddenError("channel subscription required")
	}

	added, err := s.repo.AddParticipant(ctx, id, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("add participant", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The sweep may have ended the giveaway between the status read and
	// the set append. The late append is reverted so the participant set
	// stays frozen after the transition; a drawn winner is never removed.
	if added && updated.Status != models.GiveawayStatusActive && !isWinner(updated, userID) {
		if _, err := s.repo.RemoveParticipant(ctx, id, userID); err != nil {
			return nil, apperrors.NewStoreError("revert late join", err)
		}
		return s.GetByID(ctx, id)
	}

	if added {
		logger.Info().Str("giveaway_id", id).Str("user_id", userID).Msg("Participant joined")
	}

	return updated, nil
}

func isWinner(giveaway *models.Giveaway, userID string) bool {
	for _, w := range giveaway.Winners {
		if w == userID {
			return true
		}
	}
	return false
}

func (s *giveawayService) Leave(ctx context.Context, id, userID string) (*models.Giveaway, error) {
	giveaway, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if giveaway.Status != models.GiveawayStatusActive {
		return giveaway, nil
	}

	removed, err := s.repo.RemoveParticipant(ctx, id, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("remove participant", err)
	}
	if removed {
		logger.Info().Str("giveaway_id", id).Str("user_id", userID).Msg("Participant left")
	}

	return s.GetByID(ctx, id)
}

// ForceEnd pulls the end time to now and performs the active->ended
// transition under the status guard. Losing the guard means the sweep got
// there first, which is fine: the result is the same ended record.
func (s *giveawayService) ForceEnd(ctx context.Context, id string) (*models.Giveaway, error) {
	giveaway, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !giveaway.ForceEnd(s.nowFunc(), s.config.Giveaway.OrganizerID) {
		return giveaway, nil
	}

	if err := s.repo.UpdateGuarded(ctx, giveaway, models.GiveawayStatusActive); err != nil {
		if err == repository.ErrStatusConflict {
			return s.GetByID(ctx, id)
		}
		return nil, apperrors.NewStoreError("force end giveaway", err)
	}

	logger.Info().Str("giveaway_id", id).Msg("Giveaway force-ended")
	return giveaway, nil
}

// ApplyPatch handles the legacy partial-update surface. Participant arrays
// are reconciled through the atomic membership set; a status patch to
// "ended" runs the real transition and is a no-op on an ended record.
func (s *giveawayService) ApplyPatch(ctx context.Context, patch *models.GiveawayPatch) (*models.Giveaway, error) {
	giveaway, err := s.GetByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	if patch.Participants != nil && giveaway.Status == models.GiveawayStatusActive {
		if err := s.reconcileParticipants(ctx, giveaway, *patch.Participants); err != nil {
			return nil, apperrors.NewStoreError("reconcile participants", err)
		}
	}

	if patch.Status != nil && *patch.Status == models.GiveawayStatusEnded && giveaway.Status == models.GiveawayStatusActive {
		giveaway, err = s.GetByID(ctx, patch.ID)
		if err != nil {
			return nil, err
		}
		giveaway.ForceEnd(s.nowFunc(), s.config.Giveaway.OrganizerID)
		if patch.Winners != nil && len(*patch.Winners) == len(giveaway.Prizes) {
			giveaway.Winners = *patch.Winners
		}
		if err := s.repo.UpdateGuarded(ctx, giveaway, models.GiveawayStatusActive); err != nil {
			if err == repository.ErrStatusConflict {
				return s.GetByID(ctx, patch.ID)
			}
			return nil, apperrors.NewStoreError("patch giveaway", err)
		}
		return giveaway, nil
	}

	return s.GetByID(ctx, patch.ID)
}

func (s *giveawayService) reconcileParticipants(ctx context.Context, giveaway *models.Giveaway, desired []string) error {
	want := make(map[string]bool, len(desired))
	for _, userID := range desired {
		want[userID] = true
		if !giveaway.IsParticipant(userID) {
			if _, err := s.repo.AddParticipant(ctx, giveaway.ID, userID); err != nil {
				return err
			}
		}
	}
	for _, userID := range giveaway.Participants {
		if !want[userID] {
			if _, err := s.repo.RemoveParticipant(ctx, giveaway.ID, userID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *giveawayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewStoreError("delete giveaway", err)
	}
	logger.Info().Str("giveaway_id", id).Msg("Giveaway deleted")
	return nil
}
