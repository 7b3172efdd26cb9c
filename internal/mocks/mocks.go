package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/domain/visit"
)

// BackendClientMock is a lightweight mock for BackendClient that counts calls.
type BackendClientMock struct {
	VerifyTextFn  func(ctx context.Context, text string) (*verdict.Verdict, error)
	VerifyImageFn func(ctx context.Context, imageURL string) (*verdict.Verdict, error)

	mu         sync.Mutex
	TextCalls  []string
	ImageCalls []string
}

func (m *BackendClientMock) VerifyText(ctx context.Context, text string) (*verdict.Verdict, error) {
	m.mu.Lock()
	m.TextCalls = append(m.TextCalls, text)
	m.mu.Unlock()
	if m.VerifyTextFn != nil {
		return m.VerifyTextFn(ctx, text)
	}
	return &verdict.Verdict{Status: verdict.StatusGreen}, nil
}

func (m *BackendClientMock) VerifyImage(ctx context.Context, imageURL string) (*verdict.Verdict, error) {
	m.mu.Lock()
	m.ImageCalls = append(m.ImageCalls, imageURL)
	m.mu.Unlock()
	if m.VerifyImageFn != nil {
		return m.VerifyImageFn(ctx, imageURL)
	}
	return &verdict.Verdict{Status: verdict.StatusGreen}, nil
}

// TextCallCount returns the number of VerifyText calls so far.
func (m *BackendClientMock) TextCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TextCalls)
}

// NotifierMock records notifications.
type NotifierMock struct {
	mu   sync.Mutex
	Sent []notification.Notification
}

func (m *NotifierMock) Notify(_ context.Context, n notification.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
}

// AnalysisServiceMock is a lightweight mock for AnalysisService
type AnalysisServiceMock struct {
	AnalyzeTextFn       func(ctx context.Context, text string) *verdict.Verdict
	VerifyImageFn       func(ctx context.Context, srcURL string) *verdict.Verdict
	LatestResultFn      func(ctx context.Context) *verdict.Verdict
	LatestImageResultFn func(ctx context.Context) *verdict.Verdict
}

func (m *AnalysisServiceMock) AnalyzeText(ctx context.Context, text string) *verdict.Verdict {
	if m.AnalyzeTextFn != nil {
		return m.AnalyzeTextFn(ctx, text)
	}
	return nil
}
func (m *AnalysisServiceMock) VerifyImage(ctx context.Context, srcURL string) *verdict.Verdict {
	if m.VerifyImageFn != nil {
		return m.VerifyImageFn(ctx, srcURL)
	}
	return nil
}
func (m *AnalysisServiceMock) LatestResult(ctx context.Context) *verdict.Verdict {
	if m.LatestResultFn != nil {
		return m.LatestResultFn(ctx)
	}
	return nil
}
func (m *AnalysisServiceMock) LatestImageResult(ctx context.Context) *verdict.Verdict {
	if m.LatestImageResultFn != nil {
		return m.LatestImageResultFn(ctx)
	}
	return nil
}

// VisitLogServiceMock is a lightweight mock for VisitLogService
type VisitLogServiceMock struct {
	RecordFn  func(ctx context.Context, rawURL string)
	EntriesFn func(ctx context.Context) ([]visit.Record, error)
}

func (m *VisitLogServiceMock) Record(ctx context.Context, rawURL string) {
	if m.RecordFn != nil {
		m.RecordFn(ctx, rawURL)
	}
}
func (m *VisitLogServiceMock) Entries(ctx context.Context) ([]visit.Record, error) {
	if m.EntriesFn != nil {
		return m.EntriesFn(ctx)
	}
	return []visit.Record{}, nil
}

// ErrStore is returned by FailingStore.
var ErrStore = errors.New("store unavailable")

// FailingStore is a KVStore whose reads and/or writes fail.
type FailingStore struct {
	FailGet bool
	FailSet bool

	mu   sync.Mutex
	data map[string][]byte
}

func (s *FailingStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.FailGet {
		return nil, false, ErrStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FailingStore) Set(_ context.Context, key string, value []byte) error {
	if s.FailSet {
		return ErrStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = value
	return nil
}

func (s *FailingStore) Delete(_ context.Context, key string) error {
	if s.FailSet {
		return ErrStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
