package repository

import (
	"context"
	"errors"

	"cs2-giveaway-backend/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
	// ErrStatusConflict is returned by the guarded update when the record's
	// stored status no longer matches the expected one. Callers treat it as
	// "someone else already performed this transition".
	ErrStatusConflict = errors.New("giveaway status conflict")
)

// GiveawayRepository is the store boundary. Participant membership is an
// atomic set primitive at the storage layer, so concurrent joins cannot
// lose updates the way a whole-array overwrite would.
type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) error
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	// List returns all giveaways ordered by creation time, newest first.
	List(ctx context.Context) ([]*models.Giveaway, error)
	// UpdateGuarded persists the record only while its stored status still
	// equals expected; otherwise ErrStatusConflict.
	UpdateGuarded(ctx context.Context, giveaway *models.Giveaway, expected models.GiveawayStatus) error
	Delete(ctx context.Context, id string) error

	AddParticipant(ctx context.Context, giveawayID, userID string) (bool, error)
	RemoveParticipant(ctx context.Context, giveawayID, userID string) (bool, error)
	GetParticipants(ctx context.Context, giveawayID string) ([]string, error)

	GetActiveIDs(ctx context.Context) ([]string, error)

	// TryClaimProcessing marks a giveaway as being processed by the
	// expiration sweep; only one claimer succeeds. The claim carries a
	// TTL, so a crashed sweep instance cannot block a giveaway forever.
	TryClaimProcessing(ctx context.Context, id string) bool
	ReleaseProcessing(ctx context.Context, id string) error
}
