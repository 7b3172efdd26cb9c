package events

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/visit"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

// Subscribe wires the standard handlers: top-level http(s) navigations go to the
// visit log, text and image events go to the analysis service, and installs are logged.
func Subscribe(d *Dispatcher, analysis ports.AnalysisService, visits ports.VisitLogService, logger *logrus.Logger) []*Subscription {
	return []*Subscription{
		d.Register(KindInstall, func(ctx context.Context, e Event) error {
			if logger != nil {
				logger.Info("extension installed")
			}
			return nil
		}),
		d.Register(KindNavigationCommitted, func(ctx context.Context, e Event) error {
			nav, ok := e.Payload.(visit.Navigation)
			if !ok {
				return fmt.Errorf("navigation payload: unexpected %T", e.Payload)
			}
			if nav.IsTopLevelHTTP() {
				visits.Record(ctx, nav.URL)
			}
			return nil
		}),
		d.Register(KindAnalyzeText, func(ctx context.Context, e Event) error {
			req, ok := e.Payload.(*TextRequest)
			if !ok || req == nil {
				return fmt.Errorf("text payload: unexpected %T", e.Payload)
			}
			req.Result = analysis.AnalyzeText(ctx, req.Text)
			return nil
		}),
		d.Register(KindVerifyImage, func(ctx context.Context, e Event) error {
			req, ok := e.Payload.(*ImageRequest)
			if !ok || req == nil {
				return fmt.Errorf("image payload: unexpected %T", e.Payload)
			}
			req.Result = analysis.VerifyImage(ctx, req.SrcURL)
			return nil
		}),
	}
}
