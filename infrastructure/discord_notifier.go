package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// discordMessageLimit is Discord's maximum content length
const discordMessageLimit = 2000

// DiscordWebhookNotifier posts messages to a Discord channel webhook
type DiscordWebhookNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordWebhookNotifier creates a notifier from a full webhook URL of
// the form https://discord.com/api/webhooks/{id}/{token}
func NewDiscordWebhookNotifier(webhookURL string) (*DiscordWebhookNotifier, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &DiscordWebhookNotifier{
		session:   session,
		webhookID: id,
		token:     token,
	}, nil
}

// Notify implements service.Notifier
func (n *DiscordWebhookNotifier) Notify(ctx context.Context, message string) error {
	params := &discordgo.WebhookParams{
		Content: truncateMessage(message, discordMessageLimit),
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to execute discord webhook: %w", err)
	}

	log.WithField("webhookID", n.webhookID).Debug("Sent Discord notification")
	return nil
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid discord webhook url: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid discord webhook url: expected /api/webhooks/{id}/{token}")
}

// truncateMessage cuts message to at most limit runes
func truncateMessage(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}
	return string(runes[:limit-1]) + "…"
}
