package service

import (
	"context"
	"fmt"
	"strings"

	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/features/giveaway/models"
	"cs2-giveaway-backend/internal/platform/telegram"
)

// telegramAnnouncer posts winner announcements to the configured channel.
// Without a bot token every announce is a silent no-op.
type telegramAnnouncer struct {
	client *telegram.Client
	config *config.Config
}

func NewTelegramAnnouncer(client *telegram.Client, cfg *config.Config) Announcer {
	return &telegramAnnouncer{client: client, config: cfg}
}

func (a *telegramAnnouncer) AnnounceCreated(ctx context.Context, giveaway *models.Giveaway) error {
	if !a.client.HasToken() || a.config.Telegram.ChannelID == "" {
		return nil
	}
	return a.client.SendMessage(ctx, a.config.Telegram.ChannelID, buildCreatedAnnouncement(giveaway))
}

func (a *telegramAnnouncer) AnnounceWinners(ctx context.Context, giveaway *models.Giveaway) error {
	if !a.client.HasToken() || a.config.Telegram.ChannelID == "" {
		return nil
	}
	return a.client.SendMessage(ctx, a.config.Telegram.ChannelID, buildAnnouncement(giveaway))
}

func buildCreatedAnnouncement(giveaway *models.Giveaway) string {
	var sb strings.Builder
	sb.WriteString("🎁 Новый розыгрыш!\n\n")
	for _, prize := range giveaway.Prizes {
		sb.WriteString(fmt.Sprintf("🔫 %s\n", prize.Name))
	}
	sb.WriteString(fmt.Sprintf("\nУчаствуй в приложении до %s!", giveaway.EndsAt().UTC().Format("02.01.2006 15:04")))
	return sb.String()
}

func buildAnnouncement(giveaway *models.Giveaway) string {
	var sb strings.Builder
	sb.WriteString("🎉 Розыгрыш завершён!\n\n")
	for i, winner := range giveaway.Winners {
		prize := "приз"
		if i < len(giveaway.Prizes) {
			prize = giveaway.Prizes[i].Name
		}
		sb.WriteString(fmt.Sprintf("🏆 %s — %s\n", winner, prize))
	}
	return sb.String()
}
