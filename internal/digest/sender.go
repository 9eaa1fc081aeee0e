package digest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/keyring"
	"github.com/julianstephens/planner/internal/logger"
)

// ErrNoTelegramToken is returned when a chat ID is configured without a token.
var ErrNoTelegramToken = errors.New("telegram chat configured but no bot token found")

// Sender delivers a digest message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// WriterSender prints digests to a writer.
type WriterSender struct {
	w io.Writer
}

func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

func (s *WriterSender) Send(_ context.Context, text string) error {
	text = strings.TrimRight(text, "\n")
	_, err := fmt.Fprintln(s.w, text)
	return err
}

// TelegramSender posts digests to a single Telegram chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender authorizes token against the Telegram API.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newTelegramSender(api, chatID), nil
}

func newTelegramSender(api *tgbotapi.BotAPI, chatID int64) *TelegramSender {
	logger.Debug("Telegram sender authorized", "bot", api.Self.UserName, "chat", chatID)
	return &TelegramSender{api: api, chatID: chatID}
}

func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// SenderFor picks the Telegram sender when a chat ID is configured and the
// writer sender otherwise. The bot token comes from the config, then the
// keyring.
func SenderFor(cfg *config.Config, w io.Writer) (Sender, error) {
	if cfg.Digest.TelegramChatID == 0 {
		return NewWriterSender(w), nil
	}

	token := cfg.Digest.TelegramToken
	if token == "" {
		stored, err := keyring.Get(keyring.TelegramToken)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return nil, err
		}
		token = stored
	}
	if token == "" {
		return nil, ErrNoTelegramToken
	}
	return NewTelegramSender(token, cfg.Digest.TelegramChatID)
}
