// Package notification provides the banner delivery channels
package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/threshold"
	tb "gopkg.in/tucnak/telebot.v2"
)

// TelegramSettings holds the bot configuration for the Telegram channel
type TelegramSettings struct {
	Token   string // Telegram bot token
	Channel string // numeric chat id or @channelname
	APIURL  string        // defaults to the public Bot API
	Timeout time.Duration // per upload, DefaultTimeout when zero
}

// Telegram implements core.Notifier by posting banners with sendPhoto
type Telegram struct {
	client  *tb.Bot
	chat    tb.Recipient
	caption bool
}

var _ core.Notifier = (*Telegram)(nil)

// TelegramOption is a function that configures a telegram instance
type TelegramOption func(telegram *Telegram)

// WithCaption attaches "PAIR: $price" as the photo caption
func WithCaption() TelegramOption {
	return func(t *Telegram) {
		t.caption = true
	}
}

// channelName is a @username recipient
type channelName string

func (c channelName) Recipient() string { return string(c) }

// recipient maps a configured channel id to a telebot recipient
func recipient(channel string) tb.Recipient {
	channel = strings.TrimSpace(channel)
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return tb.ChatID(id)
	}
	return channelName(channel)
}

// NewTelegram creates a Telegram notifier. The bot runs offline: it never
// polls for updates, it only sends.
func NewTelegram(settings TelegramSettings, options ...TelegramOption) (*Telegram, error) {
	if settings.Token == "" || settings.Channel == "" {
		return nil, fmt.Errorf("telegram token and channel are required")
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := tb.NewBot(tb.Settings{
		URL:     settings.APIURL,
		Token:   settings.Token,
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	telegram := &Telegram{
		client: client,
		chat:   recipient(settings.Channel),
	}

	for _, option := range options {
		option(telegram)
	}

	return telegram, nil
}

// Name implements core.Notifier.
func (t *Telegram) Name() string { return "telegram" }

// Send implements core.Notifier. telebot has no context support, so ctx is
// only checked before the upload starts.
func (t *Telegram) Send(ctx context.Context, banner core.Banner) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := banner.PNG()
	if err != nil {
		return fmt.Errorf("failed to encode banner: %w", err)
	}

	photo := &tb.Photo{File: tb.FromReader(bytes.NewReader(data))}
	if t.caption {
		photo.Caption = fmt.Sprintf("%s: %s", banner.Pair, threshold.FormatPrice(banner.Price, banner.Decimals))
	}

	if _, err := t.client.Send(t.chat, photo); err != nil {
		return fmt.Errorf("failed to send telegram photo: %w", err)
	}
	return nil
}
