package service

import (
	"context"
	"errors"
	"fmt"

	"cs2-giveaway-backend/internal/common/config"
	apperrors "cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/common/logger"
	"cs2-giveaway-backend/internal/features/diag"
	"cs2-giveaway-backend/internal/platform/telegram"
)

// SubscriptionService answers whether a user may join: membership in the
// configured channel is the only requirement. The check is advisory
// metadata for the client, and is also enforced server-side on join.
type SubscriptionService interface {
	CheckMembership(ctx context.Context, userID string) (subscribed bool, warning string, err error)
}

type subscriptionService struct {
	client *telegram.Client
	config *config.Config
	diag   *diag.Log
}

func NewSubscriptionService(client *telegram.Client, cfg *config.Config, diagLog *diag.Log) SubscriptionService {
	return &subscriptionService{
		client: client,
		config: cfg,
		diag:   diagLog,
	}
}

// subscribedStatuses are the platform statuses that count as a member.
var subscribedStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// CheckMembership maps the platform answer per the gate contract. Without a
// configured bot token the gate fails open: blocking every user in an
// environment with no credentials would be worse than letting them in, so
// it answers subscribed with a warning instead.
func (s *subscriptionService) CheckMembership(ctx context.Context, userID string) (bool, string, error) {
	if !s.client.HasToken() {
		warning := "BOT_TOKEN not set, subscription check skipped"
		logger.Warn().Str("user_id", userID).Msg(warning)
		return true, warning, nil
	}

	member, err := s.client.GetChatMember(ctx, s.config.Telegram.ChannelID, userID)
	if err != nil {
		var apiErr *telegram.APIError
		if errors.As(err, &apiErr) {
			// The platform answered: the user is unknown to the chat, or
			// the bot cannot see it. A definite "not subscribed".
			logger.Debug().
				Str("user_id", userID).
				Str("tg_error", apiErr.Description).
				Msg("Membership check: negative platform answer")
			return false, "", nil
		}

		// Transport failure: distinguishable from a legitimate non-member
		// so the client can retry instead of treating it as a denial.
		s.diag.Record(ctx, "check-sub", fmt.Sprintf("user %s: %v", userID, err))
		return false, "", apperrors.NewAuthCheckError(err)
	}

	return subscribedStatuses[member.Status], "", nil
}
