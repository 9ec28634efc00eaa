package leavecalendar_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hr-dashboard/internal/leavecalendar"
	leavecalendarerrors "hr-dashboard/internal/leavecalendar/errors"
	leavecalendarMock "hr-dashboard/internal/leavecalendar/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

type allowAll struct{}

func (allowAll) Enforce(string, string, string) (bool, error) { return true, nil }

func newCalendarRouter(t *testing.T) (*gin.Engine, *leavecalendarMock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := leavecalendarMock.NewMockService(gomock.NewController(t))
	r := gin.New()
	authn := func(c *gin.Context) {
		c.Set("role", "employee")
		c.Next()
	}
	leavecalendar.RegisterRoutes(r.Group(""), leavecalendar.NewHandler(svc), allowAll{}, authn)
	return r, svc
}

func TestHandler_List(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("collects the sequence", func(t *testing.T) {
		r, svc := newCalendarRouter(t)
		employeeID := uuid.New()
		svc.EXPECT().
			ListApprovedInRange(gomock.Any(), from, to).
			Return(seqOf(nil, leavecalendar.Entry{
				LeaveID:      uuid.New(),
				EmployeeID:   employeeID,
				EmployeeName: "Dina Kartika",
				LeaveType:    "annual",
				StartDate:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
			}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-calendar?from=2024-06-01&to=2024-06-30", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))

		var data leavecalendar.CalendarResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Entries, 1)
		assert.Equal(t, "Dina Kartika", data.Entries[0].EmployeeName)
		assert.Equal(t, "2024-06-03", data.Entries[0].StartDate)
		assert.Equal(t, employeeID.String(), data.Entries[0].EmployeeID)
	})

	t.Run("empty range returns empty list", func(t *testing.T) {
		r, svc := newCalendarRouter(t)
		svc.EXPECT().ListApprovedInRange(gomock.Any(), from, to).Return(seqOf(nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-calendar?from=2024-06-01&to=2024-06-30", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entries":[]`)
	})

	t.Run("inverted range", func(t *testing.T) {
		r, svc := newCalendarRouter(t)
		svc.EXPECT().
			ListApprovedInRange(gomock.Any(), to, from).
			Return(seqOf(leavecalendarerrors.ErrInvalidDateRange))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-calendar?from=2024-06-30&to=2024-06-01", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		r, _ := newCalendarRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-calendar?from=June&to=2024-06-30", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		r, svc := newCalendarRouter(t)
		y, m, _ := time.Now().UTC().Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		svc.EXPECT().ListApprovedInRange(gomock.Any(), first, first.AddDate(0, 1, -1)).Return(seqOf(nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-calendar", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
