package notification

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/logger/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// upload is what a fake endpoint received
type upload struct {
	path   string
	fields map[string]string
	files  map[string][]byte
	types  map[string]string
}

// recorder is a fake multipart endpoint answering with a fixed status and body
type recorder struct {
	mu      sync.Mutex
	uploads []upload
	status  int
	body    string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	got := upload{
		path:   r.URL.Path,
		fields: map[string]string{},
		files:  map[string][]byte{},
		types:  map[string]string{},
	}

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil {
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err != nil {
				break
			}

			data, _ := io.ReadAll(part)
			if decoded, err := png.Decode(bytes.NewReader(data)); err == nil && decoded != nil {
				got.files[part.FormName()] = data
				got.types[part.FormName()] = part.Header.Get("Content-Type")
			} else {
				got.fields[part.FormName()] = string(data)
			}
		}
	}

	rec.mu.Lock()
	rec.uploads = append(rec.uploads, got)
	rec.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rec.status)
	_, _ = io.WriteString(w, rec.body)
}

func testBanner() core.Banner {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})

	return core.Banner{
		Alert: core.Alert{
			Pair:      "ETH/USDT",
			Price:     decimal.NewFromInt(3010),
			Threshold: decimal.NewFromInt(10),
		},
		Image: img,
	}
}

const sentPhoto = `{"ok":true,"result":{"message_id":7,"date":1700000000,` +
	`"chat":{"id":-1001234567890,"type":"channel","title":"alerts"},` +
	`"photo":[{"file_id":"AgAD","file_unique_id":"AQAD","width":8,"height":4,"file_size":90}]}}`

func TestTelegram_Send(t *testing.T) {
	rec := &recorder{status: http.StatusOK, body: sentPhoto}
	server := httptest.NewServer(rec)
	defer server.Close()

	telegram, err := NewTelegram(TelegramSettings{
		Token:   "123:abc",
		Channel: "-1001234567890",
		APIURL:  server.URL,
	}, WithCaption())
	require.NoError(t, err)
	require.Equal(t, "telegram", telegram.Name())

	require.NoError(t, telegram.Send(context.Background(), testBanner()))

	require.Len(t, rec.uploads, 1)
	got := rec.uploads[0]
	require.Equal(t, "/bot123:abc/sendPhoto", got.path)
	require.Equal(t, "-1001234567890", got.fields["chat_id"])
	require.Equal(t, "ETH/USDT: $3,010", got.fields["caption"])
	require.NotEmpty(t, got.files["photo"])
}

func TestTelegram_SendError(t *testing.T) {
	rec := &recorder{
		status: http.StatusBadRequest,
		body:   `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
	}
	server := httptest.NewServer(rec)
	defer server.Close()

	telegram, err := NewTelegram(TelegramSettings{Token: "123:abc", Channel: "@alerts", APIURL: server.URL})
	require.NoError(t, err)

	err = telegram.Send(context.Background(), testBanner())
	require.Error(t, err)
	require.Len(t, rec.uploads, 1)
	require.Equal(t, "@alerts", rec.uploads[0].fields["chat_id"])
}

func TestTelegram_Validation(t *testing.T) {
	_, err := NewTelegram(TelegramSettings{Token: "123:abc"})
	require.Error(t, err)

	telegram, err := NewTelegram(TelegramSettings{Token: "123:abc", Channel: "1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, telegram.Send(ctx, testBanner()), context.Canceled)
}

func TestWebhook_Send(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		rec := &recorder{status: status}
		server := httptest.NewServer(rec)

		webhook := NewWebhook(server.URL + "/api/webhooks/1/token")
		require.Equal(t, "webhook", webhook.Name())
		require.NoError(t, webhook.Send(context.Background(), testBanner()))

		require.Len(t, rec.uploads, 1)
		require.Equal(t, "/api/webhooks/1/token", rec.uploads[0].path)
		require.NotEmpty(t, rec.uploads[0].files["file"])
		require.Equal(t, "image/png", rec.uploads[0].types["file"])

		server.Close()
	}
}

func TestWebhook_SendError(t *testing.T) {
	rec := &recorder{status: http.StatusTooManyRequests, body: `{"message":"You are being rate limited."}`}
	server := httptest.NewServer(rec)
	defer server.Close()

	err := NewWebhook(server.URL).Send(context.Background(), testBanner())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "rate limited")

	server.Close()
	err = NewWebhook(server.URL, WithWebhookClient(http.DefaultClient)).Send(context.Background(), testBanner())
	require.Error(t, err)
}

// slowEndpoint answers after delay, unless the test finishes first
func slowEndpoint(t *testing.T, delay time.Duration, body string) *httptest.Server {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-done:
		}
		_, _ = io.WriteString(w, body)
	}))

	t.Cleanup(func() {
		close(done)
		server.Close()
	})
	return server
}

func TestDeliveryTimeout(t *testing.T) {
	server := slowEndpoint(t, 5*time.Second, sentPhoto)

	telegram, err := NewTelegram(TelegramSettings{
		Token:   "123:abc",
		Channel: "1",
		APIURL:  server.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	require.Error(t, telegram.Send(context.Background(), testBanner()))
	require.Less(t, time.Since(start), 2*time.Second)

	webhook := NewWebhook(server.URL, WithWebhookTimeout(50*time.Millisecond))
	start = time.Now()
	require.Error(t, webhook.Send(context.Background(), testBanner()))
	require.Less(t, time.Since(start), 2*time.Second)
}

type fakeNotifier struct {
	name  string
	err   error
	calls int
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(_ context.Context, _ core.Banner) error {
	f.calls++
	return f.err
}

func TestDispatcher_Dispatch(t *testing.T) {
	failing := &fakeNotifier{name: "telegram", err: errors.New("boom")}
	working := &fakeNotifier{name: "webhook"}

	dispatcher := NewDispatcher(zerolog.Nop(), failing, nil, working)
	require.Equal(t, []string{"telegram", "webhook"}, dispatcher.Names())

	delivered := dispatcher.Dispatch(context.Background(), testBanner())
	require.Equal(t, 1, delivered)
	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, working.calls, "a failing notifier must not skip the next one")

	require.Equal(t, 0, NewDispatcher(zerolog.Nop()).Dispatch(context.Background(), testBanner()))
}
