//go:build unit

package api_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"bookcore/internal/handler/api"
	resdto "bookcore/internal/handler/dto/response"
	"bookcore/internal/usecase/queries"
	"bookcore/tests/common/httptest"
	queriesmock "bookcore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ResourceHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockReservationQueries
	handler     *api.ResourceHandler
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewResourceHandler(s.mockQueries)

	// Availability is a public read.
	s.router.GET("/resources/:id/availability", s.handler.CheckAvailability)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func (s *ResourceHandlerTestSuite) TestCheckAvailability() {
	resourceID := uuid.New()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	availURL := func(startStr, endStr string) string {
		q := url.Values{}
		q.Set("start", startStr)
		q.Set("end", endStr)
		return "/resources/" + resourceID.String() + "/availability?" + q.Encode()
	}

	s.Run("success: available interval", func() {
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), resourceID, start, end).
			Return(&queries.AvailabilityResult{Available: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router,
			http.MethodGet, availURL(start.Format(time.RFC3339), end.Format(time.RFC3339)), nil, "")

		var resp resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.True(resp.Available)
		s.Empty(resp.Conflicts)
	})

	s.Run("success: conflicting interval lists the blockers", func() {
		conflictID := uuid.New()
		result := &queries.AvailabilityResult{
			Available: false,
			Conflicts: []queries.ConflictInterval{{ReservationID: conflictID, StartTime: start, EndTime: end}},
		}
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), resourceID, start, end).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router,
			http.MethodGet, availURL(start.Format(time.RFC3339), end.Format(time.RFC3339)), nil, "")

		var resp resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.False(resp.Available)
		s.Require().Len(resp.Conflicts, 1)
		s.Equal(conflictID, resp.Conflicts[0].ReservationID)
	})

	s.Run("error: 400 for malformed start time", func() {
		rec := httptest.PerformRequest(s.T(), s.router,
			http.MethodGet, availURL("yesterday", end.Format(time.RFC3339)), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid start time format")
	})

	s.Run("error: 400 for inverted interval", func() {
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), resourceID, end, start).
			Return(nil, queries.ErrInvalidInterval).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router,
			http.MethodGet, availURL(end.Format(time.RFC3339), start.Format(time.RFC3339)), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Start time must be before end time")
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), resourceID, start, end).
			Return(nil, queries.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router,
			http.MethodGet, availURL(start.Format(time.RFC3339), end.Format(time.RFC3339)), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Resource not found")
	})
}
