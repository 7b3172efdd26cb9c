package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/utils"
)

const DefaultTextMaxChars = 4000

// AnalysisService is the background worker: it answers text analyses from the
// cache or the backend, verifies images, and publishes the latest results.
type AnalysisService struct {
	backend      ports.BackendClient
	cache        ports.ResultCache
	store        ports.KVStore
	notifier     ports.Notifier
	textMaxChars int
	logger       *logrus.Logger
	sf           singleflight.Group
}

var _ ports.AnalysisService = (*AnalysisService)(nil)

func NewAnalysisService(backend ports.BackendClient, cache ports.ResultCache, store ports.KVStore, notifier ports.Notifier, textMaxChars int, logger *logrus.Logger) *AnalysisService {
	if textMaxChars <= 0 {
		textMaxChars = DefaultTextMaxChars
	}
	return &AnalysisService{
		backend:      backend,
		cache:        cache,
		store:        store,
		notifier:     notifier,
		textMaxChars: textMaxChars,
		logger:       logger,
	}
}

// AnalyzeText returns the verdict for text and publishes it as the latest result.
// Identical misses in flight share one backend call. A call that got no response
// yields an error verdict that is neither cached nor published, so the next request
// reaches the backend again.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) *verdict.Verdict {
	text = utils.Truncate(text, s.textMaxChars)

	if v, ok := s.cache.Lookup(ctx, text); ok {
		s.publish(ctx, ports.KeySentinelResult, v)
		return v
	}

	// The shared call outlives any single waiter.
	callCtx := context.WithoutCancel(ctx)
	res, _, _ := s.sf.Do(text, func() (any, error) {
		v, err := s.backend.VerifyText(callCtx, text)
		if err != nil {
			if s.logger != nil {
				s.logger.WithError(err).Warn("text analysis got no backend response")
			}
			return verdict.NewError(err.Error()), nil
		}
		if v == nil {
			v = verdict.NewError(verdict.ReasonBackendFailed)
		}
		s.publish(callCtx, ports.KeySentinelResult, v)
		s.cache.Store(callCtx, text, v)
		return v, nil
	})
	return res.(*verdict.Verdict)
}

// VerifyImage checks srcURL, publishes the verdict and notifies the user. Image
// verdicts are not cached. When the backend cannot be reached the error verdict is
// published without a notification.
func (s *AnalysisService) VerifyImage(ctx context.Context, srcURL string) *verdict.Verdict {
	srcURL = strings.TrimSpace(srcURL)
	if srcURL == "" {
		if s.logger != nil {
			s.logger.Warn("no image srcUrl available for image verification")
		}
		return nil
	}
	if s.logger != nil {
		s.logger.WithField("src_url", srcURL).Info("genesis check requested")
	}

	v, err := s.backend.VerifyImage(ctx, srcURL)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("src_url", srcURL).Error("genesis check failed")
		}
		v = verdict.NewError(err.Error())
		s.publish(context.WithoutCancel(ctx), ports.KeyGenesisResult, v)
		return v
	}
	if v == nil {
		v = verdict.NewError(verdict.ReasonBackendFailed)
	}
	s.publish(ctx, ports.KeyGenesisResult, v)

	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.Notification{
			Title:   "Genesis Check",
			Message: GenesisMessage(v),
		})
	}
	return v
}

// GenesisMessage renders an image verdict as the notification body: upper-cased status, then the reason.
func GenesisMessage(v *verdict.Verdict) string {
	status := strings.ToUpper(string(v.Status))
	if status == "" {
		status = "RESULT"
	}
	return fmt.Sprintf("%s — %s", status, v.Reason)
}

// LatestResult returns the last published text verdict, nil if none.
func (s *AnalysisService) LatestResult(ctx context.Context) *verdict.Verdict {
	return s.latest(ctx, ports.KeySentinelResult)
}

// LatestImageResult returns the last published image verdict, nil if none.
func (s *AnalysisService) LatestImageResult(ctx context.Context) *verdict.Verdict {
	return s.latest(ctx, ports.KeyGenesisResult)
}

func (s *AnalysisService) latest(ctx context.Context, key string) *verdict.Verdict {
	v, ok, err := ports.GetJSON[verdict.Verdict](ctx, s.store, key)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Warn("result load failed")
		}
		return nil
	}
	if !ok {
		return nil
	}
	return v
}

func (s *AnalysisService) publish(ctx context.Context, key string, v *verdict.Verdict) {
	if err := ports.SetJSON(ctx, s.store, key, v); err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Warn("storage set failed")
		}
	}
}
