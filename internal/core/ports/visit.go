package ports

import (
	"context"

	"github.com/cognitive-shield/sentinel/internal/core/domain/visit"
)

// VisitLogService records visited domains over a rolling retention window.
type VisitLogService interface {
	Record(ctx context.Context, rawURL string)
	Entries(ctx context.Context) ([]visit.Record, error)
}
