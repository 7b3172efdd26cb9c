package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/cognitive-shield/sentinel/internal/application/services"
	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/storage"
	"github.com/cognitive-shield/sentinel/internal/mocks"
)

type analysisFixture struct {
	svc      *impl.AnalysisService
	backend  *mocks.BackendClientMock
	notifier *mocks.NotifierMock
	store    *storage.Memory
	clock    *fakeClock
}

func newAnalysisFixture(backend *mocks.BackendClientMock) *analysisFixture {
	clock := newClock()
	store := storage.NewMemory()
	cache := impl.NewResultCache(store, &impl.ResultCacheConfig{Now: clock.Now}, nil)
	notifier := &mocks.NotifierMock{}
	return &analysisFixture{
		svc:      impl.NewAnalysisService(backend, cache, store, notifier, 0, nil),
		backend:  backend,
		notifier: notifier,
		store:    store,
		clock:    clock,
	}
}

func TestAnalyzeText_SecondCallWithinTTLServedFromCache(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyTextFn: func(ctx context.Context, text string) (*verdict.Verdict, error) {
		return &verdict.Verdict{Status: verdict.StatusRed, Alerts: []verdict.Alert{{Title: "Potential Fallacy: Ad Hominem", Content: "..."}}}, nil
	}})

	first := f.svc.AnalyzeText(ctx, "0123456789")
	f.clock.Advance(time.Minute)
	second := f.svc.AnalyzeText(ctx, "0123456789")

	require.Equal(t, 1, f.backend.TextCallCount())
	assert.Equal(t, first, second)
	assert.Equal(t, verdict.StatusRed, f.svc.LatestResult(ctx).Status)
}

func TestAnalyzeText_StaleEntryCallsBackendAgain(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{})

	f.svc.AnalyzeText(ctx, "hello")
	f.clock.Advance(5 * time.Minute)
	f.svc.AnalyzeText(ctx, "hello")

	require.Equal(t, 2, f.backend.TextCallCount())
}

func TestAnalyzeText_TruncatesBeforeCachingAndSending(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{})
	long := make([]rune, 4100)
	for i := range long {
		long[i] = 'x'
	}

	f.svc.AnalyzeText(ctx, string(long))
	f.svc.AnalyzeText(ctx, string(long[:4000])+"different tail")

	require.Equal(t, 1, f.backend.TextCallCount())
	assert.Len(t, f.backend.TextCalls[0], 4000)
}

func TestAnalyzeText_InvalidJSONVerdictIsStored(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyTextFn: func(ctx context.Context, text string) (*verdict.Verdict, error) {
		return verdict.NewError(verdict.ErrInvalidJSON), nil
	}})

	f.svc.AnalyzeText(ctx, "hello")

	raw, ok, err := f.store.Get(ctx, ports.KeySentinelResult)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"status":"error","error":"Invalid JSON"}`, string(raw))
}

func TestAnalyzeText_BackendDownIsNotCachedOrPublished(t *testing.T) {
	ctx := context.Background()
	var down atomic.Bool
	down.Store(true)
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyTextFn: func(ctx context.Context, text string) (*verdict.Verdict, error) {
		if down.Load() {
			return nil, errors.New("backend request failed: connection refused")
		}
		return &verdict.Verdict{Status: verdict.StatusYellow}, nil
	}})

	first := f.svc.AnalyzeText(ctx, "hello")
	require.Equal(t, verdict.StatusError, first.Status)
	assert.Contains(t, first.Error, "connection refused")
	assert.Nil(t, f.svc.LatestResult(ctx))

	down.Store(false)
	second := f.svc.AnalyzeText(ctx, "hello")

	require.Equal(t, 2, f.backend.TextCallCount())
	assert.Equal(t, verdict.StatusYellow, second.Status)
	assert.Equal(t, verdict.StatusYellow, f.svc.LatestResult(ctx).Status)

	f.svc.AnalyzeText(ctx, "hello")
	assert.Equal(t, 2, f.backend.TextCallCount(), "the real verdict is cached")
}

func TestAnalyzeText_CallerCancellationDoesNotFailSharedCall(t *testing.T) {
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyTextFn: func(ctx context.Context, text string) (*verdict.Verdict, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &verdict.Verdict{Status: verdict.StatusGreen}, nil
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := f.svc.AnalyzeText(ctx, "hello")

	assert.Equal(t, verdict.StatusGreen, v.Status)
	assert.Equal(t, verdict.StatusGreen, f.svc.LatestResult(context.Background()).Status)
}

func TestAnalyzeText_FailedCallKeepsPreviousResult(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyTextFn: func(ctx context.Context, text string) (*verdict.Verdict, error) {
		if fail.Load() {
			return nil, errors.New("backend returned 503")
		}
		return &verdict.Verdict{Status: verdict.StatusRed}, nil
	}})

	f.svc.AnalyzeText(ctx, "first page")
	fail.Store(true)
	v := f.svc.AnalyzeText(ctx, "second page")

	assert.Equal(t, verdict.StatusError, v.Status)
	assert.Equal(t, verdict.StatusRed, f.svc.LatestResult(ctx).Status)
	_, ok := impl.NewResultCache(f.store, nil, nil).Lookup(ctx, "second page")
	assert.False(t, ok)
}

func TestAnalyzeText_StorageFailureStillReturnsVerdict(t *testing.T) {
	backend := &mocks.BackendClientMock{}
	store := &mocks.FailingStore{FailGet: true, FailSet: true}
	svc := impl.NewAnalysisService(backend, impl.NewResultCache(store, nil, nil), store, nil, 0, nil)

	v := svc.AnalyzeText(context.Background(), "hello")
	require.NotNil(t, v)
	assert.Equal(t, verdict.StatusGreen, v.Status)
	assert.Nil(t, svc.LatestResult(context.Background()))
}

func TestVerifyImage_StoresNotifiesAndDoesNotCache(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyImageFn: func(ctx context.Context, imageURL string) (*verdict.Verdict, error) {
		return &verdict.Verdict{Status: verdict.StatusRed, Reason: "No manifest match"}, nil
	}})

	f.svc.VerifyImage(ctx, "https://cdn.example.com/a.png")
	f.svc.VerifyImage(ctx, "https://cdn.example.com/a.png")

	require.Len(t, f.backend.ImageCalls, 2)
	assert.Equal(t, "No manifest match", f.svc.LatestImageResult(ctx).Reason)
	require.Len(t, f.notifier.Sent, 2)
	assert.Equal(t, "Genesis Check", f.notifier.Sent[0].Title)
	assert.Equal(t, "RED — No manifest match", f.notifier.Sent[0].Message)
	assert.Empty(t, f.notifier.Sent[0].IconPath)
	assert.Nil(t, f.svc.LatestResult(ctx), "image checks do not touch the text result")
}

func TestVerifyImage_BackendDownPublishesErrorWithoutNotification(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(&mocks.BackendClientMock{VerifyImageFn: func(ctx context.Context, imageURL string) (*verdict.Verdict, error) {
		return nil, errors.New("backend request failed: timeout")
	}})

	v := f.svc.VerifyImage(ctx, "https://cdn.example.com/a.png")

	require.Equal(t, verdict.StatusError, v.Status)
	assert.Equal(t, v, f.svc.LatestImageResult(ctx))
	assert.Empty(t, f.notifier.Sent)
}

func TestVerifyImage_EmptySourceIsIgnored(t *testing.T) {
	f := newAnalysisFixture(&mocks.BackendClientMock{})
	assert.Nil(t, f.svc.VerifyImage(context.Background(), "  "))
	assert.Empty(t, f.backend.ImageCalls)
	assert.Empty(t, f.notifier.Sent)
}

func TestGenesisMessage(t *testing.T) {
	assert.Equal(t, "GREEN — Exact hash match in registry", impl.GenesisMessage(&verdict.Verdict{Status: "green", Reason: "Exact hash match in registry"}))
	assert.Equal(t, "RESULT — ", impl.GenesisMessage(&verdict.Verdict{}))
}
