// Package telegram pushes reviewer-facing notifications through the Telegram
// Bot API. The bot is outbound only; reviewers act on reports through the
// admin CLI, not through chat commands.
package telegram

import (
	"fmt"
	"strings"

	"campusmentor/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ReviewerNotifier announces new chat reports in a reviewer group chat.
type ReviewerNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

// NewReviewerNotifier authorizes the bot and binds it to the reviewer chat.
func NewReviewerNotifier(token string, chatID int64, log *zap.Logger) (*ReviewerNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	bot.Debug = false
	log.Info("telegram bot authorized", zap.String("account", bot.Self.UserName))

	return &ReviewerNotifier{bot: bot, chatID: chatID, log: log}, nil
}

// NotifyNewReport posts a summary of a freshly captured report. Failures are
// logged and swallowed; notification is never part of the capture contract.
func (n *ReviewerNotifier) NotifyNewReport(rep *models.ChatReport) {
	msg := tgbotapi.NewMessage(n.chatID, formatReport(rep))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("failed to notify reviewers",
			zap.String("report_id", rep.ID),
			zap.Error(err))
	}
}

func formatReport(rep *models.ChatReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 *New chat report* `%s`\n", rep.ID)
	fmt.Fprintf(&b, "Channel: `%s`\n", rep.ChannelID)
	fmt.Fprintf(&b, "Reporter: `%s`\n", rep.ReporterID)
	fmt.Fprintf(&b, "Reason: %s\n", rep.Reason)
	fmt.Fprintf(&b, "Snapshot: %d messages, participants %s",
		len(rep.Messages), strings.Join(rep.Participants, ", "))
	return b.String()
}
