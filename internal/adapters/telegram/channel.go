package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"hypertracker/internal/adapters/config"
	"hypertracker/pkg/errors"
	"hypertracker/pkg/logger"
)

// Channel delivers a report to one notification recipient. The message body
// is owned by the caller; the channel only delivers it.
type Channel interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Compile-time check
var _ Channel = (*BotChannel)(nil)

// BotChannel implements Channel on the Telegram bot API with HTML parse mode
type BotChannel struct {
	api         *tgbotapi.BotAPI
	rateLimiter *rate.Limiter
	log         *logger.Logger
}

// NewBotChannel creates a Telegram-backed notification channel
func NewBotChannel(cfg config.TelegramConfig) (*BotChannel, error) {
	if cfg.BotToken == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}

	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	log := logger.Get().With("component", "telegram_channel")
	log.Infof("Authorized on account %s", api.Self.UserName)

	// Conservative: 20 msg/sec sustained, bursts of 30 (Telegram limit is 30)
	return &BotChannel{
		api:         api,
		rateLimiter: rate.NewLimiter(rate.Limit(20), 30),
		log:         log,
	}, nil
}

// Send delivers an HTML-formatted message to a single chat
func (c *BotChannel) Send(ctx context.Context, chatID int64, text string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait failed")
	}

	start := time.Now()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := c.api.Send(msg)
	if err != nil {
		return errors.Wrap(err, "failed to send message")
	}

	c.log.Debugw("Message sent",
		"chat_id", chatID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
