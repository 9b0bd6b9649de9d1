package notify

import (
	"fmt"
	"log/slog"

	"github.com/cardlink/transfer-service/internal/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers messages through a Telegram bot. Messages go
// to a single operator chat; the recipient phone number is included in the
// text so operators can relay codes during the pilot phase.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
	chatID int64
}

// NewTelegramNotifier creates a TelegramNotifier from configuration.
func NewTelegramNotifier(cfg *config.TelegramConfig, logger *slog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram notifier ready", "bot", bot.Self.UserName, "chat_id", cfg.ChatID)

	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger,
	}, nil
}

// Send relays the message to the configured chat.
func (n *TelegramNotifier) Send(phone, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("[%s] %s", phone, text))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to send telegram message", "phone", phone, "error", err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	n.logger.Info("telegram message sent", "phone", phone)
	return nil
}

var _ Notifier = (*TelegramNotifier)(nil)
