package service

import (
	"context"

	"cs2-giveaway-backend/internal/features/giveaway/models"
)

// GiveawayService owns giveaway lifecycle operations over the store.
type GiveawayService interface {
	Create(ctx context.Context, input *models.GiveawayCreate) (*models.Giveaway, error)
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	List(ctx context.Context) ([]*models.Giveaway, error)
	Join(ctx context.Context, id, userID string) (*models.Giveaway, error)
	Leave(ctx context.Context, id, userID string) (*models.Giveaway, error)
	ForceEnd(ctx context.Context, id string) (*models.Giveaway, error)
	ApplyPatch(ctx context.Context, patch *models.GiveawayPatch) (*models.Giveaway, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionChecker is the participation gate consulted before a join.
type SubscriptionChecker interface {
	CheckMembership(ctx context.Context, userID string) (subscribed bool, warning string, err error)
}

// Announcer posts giveaway events to the configured channel.
type Announcer interface {
	AnnounceCreated(ctx context.Context, giveaway *models.Giveaway) error
	AnnounceWinners(ctx context.Context, giveaway *models.Giveaway) error
}
