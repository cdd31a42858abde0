// Package notify pushes record changes to external chat platforms. Delivery
// is best-effort; a failed notification never fails the operation that
// triggered it.
package notify

import (
	"context"
	"fmt"

	slackgo "github.com/slack-go/slack"

	"github.com/stewardhq/steward/internal/store"
)

// SlackNotifier posts new announcements to a Slack channel.
type SlackNotifier struct {
	client  *slackgo.Client
	channel string
}

// NewSlackNotifier builds a notifier over the given bot token and channel ID.
func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slackgo.New(botToken),
		channel: channel,
	}
}

// AnnouncementPosted mirrors a freshly created announcement into Slack.
func (n *SlackNotifier) AnnouncementPosted(ctx context.Context, a store.Announcement) error {
	text := fmt.Sprintf("*%s*\n%s", a.Title, a.Message)
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slackgo.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post announcement to slack: %w", err)
	}
	return nil
}
