package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
)

// ErrUnexpectedStatus is returned when an endpoint answers outside its success set
var ErrUnexpectedStatus = errors.New("unexpected status")

const (
	// BannerFileName is the file name banners are uploaded with
	BannerFileName = "image.png"

	// DefaultTimeout bounds a single upload on either delivery path
	DefaultTimeout = time.Minute
)

// Webhook implements core.Notifier for Discord style webhooks accepting a
// multipart "file" upload
type Webhook struct {
	url    string
	client *http.Client
}

var _ core.Notifier = (*Webhook)(nil)

// WebhookOption configures a Webhook
type WebhookOption func(*Webhook)

// WithWebhookClient sets the HTTP client used for uploads
func WithWebhookClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		w.client = client
	}
}

// WithWebhookTimeout bounds each upload, matching TelegramSettings.Timeout
func WithWebhookTimeout(timeout time.Duration) WebhookOption {
	return func(w *Webhook) {
		if timeout > 0 {
			w.client = &http.Client{Timeout: timeout}
		}
	}
}

// NewWebhook creates a webhook notifier posting to url
func NewWebhook(url string, options ...WebhookOption) *Webhook {
	webhook := &Webhook{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}

	for _, option := range options {
		option(webhook)
	}

	return webhook
}

// Name implements core.Notifier.
func (w *Webhook) Name() string { return "webhook" }

// Send implements core.Notifier. 200 and 204 are the accepted answers.
func (w *Webhook) Send(ctx context.Context, banner core.Banner) error {
	body, contentType, err := multipartBanner(banner)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w %d from webhook: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(text))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// multipartBanner builds the form body with the PNG banner as the "file" part
func multipartBanner(banner core.Banner) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, BannerFileName))
	header.Set("Content-Type", "image/png")

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if err := banner.Encode(part); err != nil {
		return nil, "", fmt.Errorf("failed to encode banner: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
