package leavecalendar

import (
	"context"
	"iter"
	"time"

	leavecalendarerrors "hr-dashboard/internal/leavecalendar/errors"
	"hr-dashboard/internal/shared/apperror"
	"hr-dashboard/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_calendar_service.go -destination=mock/leave_calendar_service_mock.go -package=mock
type Service interface {
	ListApprovedInRange(ctx context.Context, from, to time.Time) iter.Seq2[Entry, error]
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave_calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave_calendar.service")
	}
	return &service{repo: repo, logger: l}
}

// ListApprovedInRange is read only and restartable. An invalid range is
// reported as the first and only element.
func (s *service) ListApprovedInRange(ctx context.Context, from, to time.Time) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if from.After(to) {
			yield(Entry{}, leavecalendarerrors.ErrInvalidDateRange)
			return
		}

		for e, err := range s.repo.StreamApproved(ctx, from, to) {
			if err != nil {
				contextutil.GetLogger(ctx, s.logger).Error("stream approved leave failed",
					zap.Time("from", from),
					zap.Time("to", to),
					zap.Error(err),
				)
				yield(Entry{}, apperror.Persistence(err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
