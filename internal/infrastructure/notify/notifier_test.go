package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/notify"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/storage"
	"github.com/cognitive-shield/sentinel/internal/mocks"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []notification.Notification
	fail error
}

func (s *recordingSink) Name() string { return "recording" }
func (s *recordingSink) Deliver(_ context.Context, n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.fail
}

func iconServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/icons/128.png", r.URL.Path)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNotify_SkipsWhenIconMissing(t *testing.T) {
	srv := iconServer(t, http.StatusNotFound)
	sink := &recordingSink{}
	n := notify.NewNotifier(srv.URL, logrus.New(), sink)

	n.Notify(context.Background(), notification.Notification{Title: "Genesis Check", Message: "RED — No manifest match"})
	require.Empty(t, sink.got)
}

func TestNotify_SkipsWhenAssetsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	sink := &recordingSink{}

	notify.NewNotifier(url, nil, sink).Notify(context.Background(), notification.Notification{Title: "x"})
	require.Empty(t, sink.got)
}

func TestNotify_DeliversToEverySinkAndSwallowsErrors(t *testing.T) {
	srv := iconServer(t, http.StatusOK)
	failing := &recordingSink{fail: errors.New("boom")}
	ok := &recordingSink{}
	n := notify.NewNotifier(srv.URL+"/", logrus.New(), failing, ok)

	n.Notify(context.Background(), notification.Notification{Title: "Genesis Check", Message: "GREEN — match", IconPath: "/icons/128.png"})

	require.Len(t, failing.got, 1)
	require.Len(t, ok.got, 1)
	got := ok.got[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, srv.URL+"/icons/128.png", got.IconURL)
	assert.Equal(t, "GREEN — match", got.Message)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestNotify_ConfiguredIconPath(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	sink := &recordingSink{}

	notify.NewNotifier(srv.URL, nil, sink).WithIconPath("assets/shield.png").
		Notify(context.Background(), notification.Notification{Title: "Genesis Check"})

	require.Len(t, sink.got, 1)
	assert.Equal(t, "/assets/shield.png", requested)
	assert.Equal(t, srv.URL+"/assets/shield.png", sink.got[0].IconURL)
}

func TestFeedSink_KeepsNewestFirstAndCaps(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	sink := notify.NewFeedSink(store, 2)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, sink.Deliver(ctx, notification.Notification{ID: id}))
	}
	feed, err := notify.ReadFeed(ctx, store)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "c", feed[0].ID)
	assert.Equal(t, "b", feed[1].ID)
}

func TestFeedSink_StoreReadFailureKeepsExistingFeed(t *testing.T) {
	ctx := context.Background()
	store := &mocks.FailingStore{}
	sink := notify.NewFeedSink(store, 5)
	require.NoError(t, sink.Deliver(ctx, notification.Notification{ID: "a"}))
	require.NoError(t, sink.Deliver(ctx, notification.Notification{ID: "b"}))

	store.FailGet = true
	err := sink.Deliver(ctx, notification.Notification{ID: "c"})
	require.ErrorIs(t, err, mocks.ErrStore)

	store.FailGet = false
	feed, err := notify.ReadFeed(ctx, store)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "b", feed[0].ID)
	assert.Equal(t, "a", feed[1].ID)
}

func TestFeedSink_CorruptFeedIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, ports.KeyNotifications, []byte("{not a feed")))

	_, err := notify.ReadFeed(ctx, store)
	require.ErrorIs(t, err, ports.ErrDecode)

	sink := notify.NewFeedSink(store, 5)
	require.NoError(t, sink.Deliver(ctx, notification.Notification{ID: "fresh"}))
	feed, err := notify.ReadFeed(ctx, store)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "fresh", feed[0].ID)
}

func TestEmailSink_SendsThroughSendGrid(t *testing.T) {
	var payload map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &payload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink, err := notify.NewEmailSink(&notify.EmailConfig{
		SendGridAPIKey: "SG.test",
		Host:           srv.URL,
		FromEmail:      "sentinel@localhost",
		FromName:       "Sentinel",
		To:             "me@example.com",
	}, logrus.New())
	require.NoError(t, err)

	require.NoError(t, sink.Deliver(context.Background(), notification.Notification{ID: "n1", Title: "Genesis Check", Message: "RED — No manifest match"}))
	assert.Equal(t, "Bearer SG.test", auth)
	assert.Equal(t, "Genesis Check", payload["subject"])
}

func TestEmailSink_RejectedSendIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sink, err := notify.NewEmailSink(&notify.EmailConfig{SendGridAPIKey: "bad", Host: srv.URL, FromEmail: "a@b.c", To: "me@example.com"}, nil)
	require.NoError(t, err)
	require.Error(t, sink.Deliver(context.Background(), notification.Notification{Title: "t"}))
}

func TestNewEmailSink_RequiresRecipient(t *testing.T) {
	_, err := notify.NewEmailSink(&notify.EmailConfig{SendGridAPIKey: "k"}, nil)
	require.Error(t, err)
}
