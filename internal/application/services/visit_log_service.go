package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/visit"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

const DefaultVisitRetention = 7 * 24 * time.Hour

// VisitLogService appends visited domains to a log pruned to a rolling window on
// every write. Read-modify-write is not atomic: two navigations landing together
// can lose one record.
type VisitLogService struct {
	store     ports.KVStore
	retention time.Duration
	logger    *logrus.Logger
	now       func() time.Time
}

var _ ports.VisitLogService = (*VisitLogService)(nil)

func NewVisitLogService(store ports.KVStore, retention time.Duration, logger *logrus.Logger) *VisitLogService {
	if retention <= 0 {
		retention = DefaultVisitRetention
	}
	return &VisitLogService{store: store, retention: retention, logger: logger, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (s *VisitLogService) WithClock(now func() time.Time) *VisitLogService {
	s.now = now
	return s
}

// Record logs the domain of rawURL. Unparseable URLs are ignored.
func (s *VisitLogService) Record(ctx context.Context, rawURL string) {
	domain, ok := visit.GetDomain(rawURL)
	if !ok {
		if s.logger != nil {
			s.logger.WithField("url", rawURL).Debug("visit log: no domain; skipping")
		}
		return
	}

	now := s.now()
	records, err := s.Entries(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("visitLog get failed; starting empty")
		}
		records = nil
	}

	pruned := visit.Prune(records, now.Add(-s.retention))
	pruned = append(pruned, visit.NewRecord(domain, now))

	if err := ports.SetJSON(ctx, s.store, ports.KeyVisitLog, pruned); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"domain": domain}).WithError(err).Warn("visitLog set failed")
		}
		return
	}
	visitsRecorded.Inc()
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"domain": domain, "entries": len(pruned)}).Debug("visit recorded")
	}
}

// Entries returns the stored log as is, oldest first.
func (s *VisitLogService) Entries(ctx context.Context) ([]visit.Record, error) {
	records, ok, err := ports.GetJSON[[]visit.Record](ctx, s.store, ports.KeyVisitLog)
	if err != nil {
		return nil, err
	}
	if !ok || records == nil {
		return []visit.Record{}, nil
	}
	return *records, nil
}
