package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "homework-status-bot/internal/common/errors"
	"homework-status-bot/internal/common/logger"
)

const channel = "telegram"

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers plain-text messages to one fixed chat.
type Notifier struct {
	sender Sender
	chatID string
	logger logger.Logger
}

// NewBot authenticates against the Bot API. httpClient may be nil.
func NewBot(token string, httpClient tgbotapi.HTTPClient) (*tgbotapi.BotAPI, error) {
	if httpClient == nil {
		return tgbotapi.NewBotAPI(token)
	}
	return tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
}

func NewNotifier(sender Sender, chatID string, log logger.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: strings.TrimSpace(chatID),
		logger: log.WithFields(map[string]interface{}{"component": channel}),
	}
}

// Notify sends text to the configured chat. It does not retry.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewNotificationSendFailedError(channel, err)
	}

	msg, err := n.message(text)
	if err != nil {
		return apperrors.NewNotificationSendFailedError(channel, err)
	}

	sent, err := n.sender.Send(msg)
	if err != nil {
		n.logger.Error("failed to send telegram message", map[string]interface{}{
			"chatId": n.chatID,
			"error":  err,
		})
		return apperrors.NewNotificationSendFailedError(channel, err)
	}

	n.logger.Info(fmt.Sprintf("В Telegram отправлено сообщение: %s", text), map[string]interface{}{
		"chatId":    n.chatID,
		"messageId": sent.MessageID,
	})
	return nil
}

// message addresses numeric IDs as chat_id and anything else as a channel username.
func (n *Notifier) message(text string) (tgbotapi.MessageConfig, error) {
	if n.chatID == "" {
		return tgbotapi.MessageConfig{}, fmt.Errorf("empty chat id")
	}
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text), nil
	}
	if !strings.HasPrefix(n.chatID, "@") {
		return tgbotapi.MessageConfig{}, fmt.Errorf("chat id %q is neither numeric nor an @channel", n.chatID)
	}
	return tgbotapi.NewMessageToChannel(n.chatID, text), nil
}
