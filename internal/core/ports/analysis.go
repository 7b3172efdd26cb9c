package ports

import (
	"context"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
)

// BackendClient talks to the external analysis service. A response body that is not
// valid JSON comes back as a synthetic error verdict. The error is reserved for calls
// where no usable response arrived (transport failure, non-2xx status, cancellation).
type BackendClient interface {
	VerifyText(ctx context.Context, text string) (*verdict.Verdict, error)
	VerifyImage(ctx context.Context, imageURL string) (*verdict.Verdict, error)
}

// ResultCache maps analyzed text to a recent verdict.
type ResultCache interface {
	Lookup(ctx context.Context, text string) (*verdict.Verdict, bool)
	Store(ctx context.Context, text string, v *verdict.Verdict)
}

// AnalysisService runs text and image checks and publishes their latest results.
type AnalysisService interface {
	AnalyzeText(ctx context.Context, text string) *verdict.Verdict
	VerifyImage(ctx context.Context, srcURL string) *verdict.Verdict
	LatestResult(ctx context.Context) *verdict.Verdict
	LatestImageResult(ctx context.Context) *verdict.Verdict
}
