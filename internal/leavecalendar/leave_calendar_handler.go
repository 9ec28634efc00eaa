package leavecalendar

import (
	"net/http"
	"time"

	leavecalendarerrors "hr-dashboard/internal/leavecalendar/errors"
	"hr-dashboard/internal/shared/apperror"
	"hr-dashboard/internal/shared/response"
	"hr-dashboard/internal/shared/workday"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Handler struct {
	service Service
	group   singleflight.Group
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave_calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave_calendar.handler")
	}
	return &Handler{service: service, logger: l, now: time.Now}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave calendar request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// List serves ?from=&to=. Without both the current month is used.
func (h *Handler) List(c *gin.Context) {
	from, to, err := h.parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	key := from.Format(workday.DateLayout) + "|" + to.Format(workday.DateLayout)
	v, err, shared := h.group.Do(key, func() (any, error) {
		entries := make([]EntryResponse, 0)
		for e, err := range h.service.ListApprovedInRange(c.Request.Context(), from, to) {
			if err != nil {
				return nil, err
			}
			entries = append(entries, mapToResponse(e))
		}
		return CalendarResponse{
			From:    from.Format(workday.DateLayout),
			To:      to.Format(workday.DateLayout),
			Entries: entries,
		}, nil
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if shared {
		h.logger.Debug("leave calendar query shared", zap.String("range", key))
	}

	response.Success(c, http.StatusOK, v, nil)
}

func (h *Handler) parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	if rawFrom == "" && rawTo == "" {
		y, m, _ := h.now().UTC().Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), nil
	}

	from, err := workday.Parse(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, leavecalendarerrors.ErrInvalidDateFormat
	}
	to, err := workday.Parse(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, leavecalendarerrors.ErrInvalidDateFormat
	}
	return from, to, nil
}

func mapToResponse(e Entry) EntryResponse {
	return EntryResponse{
		LeaveID:      e.LeaveID.String(),
		EmployeeID:   e.EmployeeID.String(),
		EmployeeName: e.EmployeeName,
		LeaveType:    e.LeaveType,
		StartDate:    e.StartDate.Format(workday.DateLayout),
		EndDate:      e.EndDate.Format(workday.DateLayout),
	}
}
