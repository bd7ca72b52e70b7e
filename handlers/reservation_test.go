package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visbridge/models"
	"visbridge/services/reservation"
)

// stubService lets each test pin the service outcome without touching the
// real orchestrator.
type stubService struct {
	initiateResult *reservation.InitiateResult
	initiateErr    error
	completeErr    error
	updateErr      error
	record         models.ReservationRecord
	recordFound    bool
	active         []models.ReservationRecord
	stats          models.PingStatistics

	cancelled []string
	purged    []string
}

func (s *stubService) InitiateReservationAndLogin(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials, req models.ReservationRequest) (*reservation.InitiateResult, error) {
	return s.initiateResult, s.initiateErr
}

func (s *stubService) CompleteCheckout(ctx context.Context, params reservation.CompleteCheckoutParams) error {
	return s.completeErr
}

func (s *stubService) UpdateReservation(ctx context.Context, reservationID string, req models.ReservationRequest) error {
	return s.updateErr
}

func (s *stubService) RegisterAndSync(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials, req models.ReservationRequest) (*reservation.InitiateResult, error) {
	return s.initiateResult, s.initiateErr
}

func (s *stubService) CancelReservation(reservationID string) {
	s.cancelled = append(s.cancelled, reservationID)
}

func (s *stubService) PurgeReservation(reservationID string) {
	s.purged = append(s.purged, reservationID)
}

func (s *stubService) ReservationData(reservationID string) (models.ReservationRecord, bool) {
	return s.record, s.recordFound
}

func (s *stubService) ActiveReservations() []models.ReservationRecord { return s.active }
func (s *stubService) PingStatistics() models.PingStatistics          { return s.stats }
func (s *stubService) CleanupExpiredReservations()                    {}
func (s *stubService) PingHealthCheck()                               {}

func newTestRouter(svc reservation.ReservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReservationHandler(svc, reservation.NopAuditTrail{}, zap.NewNop())
	r := gin.New()
	api := r.Group("/api/visbook")
	api.POST("/initiate-reservation", h.InitiateReservation)
	api.POST("/complete-checkout", h.CompleteCheckout)
	api.PUT("/reservations/:reservationID", h.UpdateReservation)
	api.GET("/reservations/:reservationID", h.GetReservation)
	api.GET("/reservations", h.GetActiveReservations)
	api.GET("/ping-stats", h.GetPingStatistics)
	api.POST("/reservations/:reservationID/cancel", h.CancelReservation)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func validInitiateBody() map[string]any {
	return map[string]any{
		"webentity":   123,
		"loginMethod": "email",
		"loginCredentials": map[string]any{
			"email": "a@x.com",
		},
		"reservationData": map[string]any{
			"fromDate":       "2026-09-01",
			"toDate":         "2026-09-03",
			"priceId":        "price-1",
			"numberOfPeople": 2,
			"webProductId":   "prod-1",
		},
	}
}

func validCompleteBody() map[string]any {
	return map[string]any{
		"reservationId":   "res-1",
		"webentity":       123,
		"validationToken": "tok-1",
		"loginMethod":     "email",
		"customerData": map[string]any{
			"email": "a@x.com",
		},
	}
}

func TestInitiateReservationSuccess(t *testing.T) {
	svc := &stubService{initiateResult: &reservation.InitiateResult{
		ReservationID: "res-1",
		Message:       "validation code sent",
	}}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/initiate-reservation", validInitiateBody())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "res-1", data["reservationId"])
}

func TestInitiateReservationBadBody(t *testing.T) {
	r := newTestRouter(&stubService{})

	w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/initiate-reservation",
		map[string]any{"loginMethod": "email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Failed to initiate reservation", envelope["message"])
}

func TestInitiateReservationValidationError(t *testing.T) {
	svc := &stubService{initiateErr: &reservation.ValidationError{Message: "email is required for email login"}}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/initiate-reservation", validInitiateBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, envelope["error"], "email is required")
}

func TestCompleteCheckoutSuccess(t *testing.T) {
	r := newTestRouter(&stubService{})

	w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/complete-checkout", validCompleteBody())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Checkout completed and guest synchronized with Bookboost successfully", envelope["message"])
}

func TestCompleteCheckoutErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", &reservation.NotFoundError{ReservationID: "res-1"}, http.StatusNotFound},
		{"invalid state", &reservation.InvalidStateError{ReservationID: "res-1", Status: models.ReservationCompleted}, http.StatusConflict},
		{"authentication", &reservation.AuthenticationError{Message: "validation failed"}, http.StatusUnauthorized},
		{"expired", &reservation.CheckoutExpiredError{}, http.StatusGone},
		{"checkout failed", &reservation.CheckoutFailedError{Status: models.CheckoutNoPayment}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubService{completeErr: tc.err})

			w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/complete-checkout", validCompleteBody())
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, false, envelope["success"])
			assert.Equal(t, "Failed to complete checkout", envelope["message"])
		})
	}
}

func TestGetReservation(t *testing.T) {
	svc := &stubService{
		record:      models.ReservationRecord{ReservationID: "res-1", Status: models.ReservationCreated},
		recordFound: true,
	}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/visbook/reservations/res-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "res-1", data["reservationId"])
}

func TestGetReservationNotFound(t *testing.T) {
	r := newTestRouter(&stubService{})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/visbook/reservations/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestGetActiveReservations(t *testing.T) {
	svc := &stubService{active: []models.ReservationRecord{
		{ReservationID: "res-1"},
		{ReservationID: "res-2"},
	}}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/visbook/reservations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), envelope["count"])
}

func TestGetPingStatistics(t *testing.T) {
	svc := &stubService{stats: models.PingStatistics{
		TotalReservations:  3,
		ActiveReservations: 2,
		ScheduledPingJobs:  2,
	}}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/visbook/ping-stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(2), data["scheduledPingJobs"])
}

func TestCancelReservation(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/visbook/reservations/res-1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, []string{"res-1"}, svc.cancelled)
}
