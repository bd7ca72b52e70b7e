package visbook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visbridge/models"
)

type capturedRequest struct {
	Method string
	Path   string
	Body   string
}

func newTestClient(t *testing.T, status int, response string, captured *capturedRequest) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, zap.NewNop())
}

func TestCreateReservation(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK,
		`{"reservationId":"res-1","encryptedCompanyId":"enc-1"}`, &captured)

	result, err := client.CreateReservation(context.Background(), 123, models.ReservationRequest{
		FromDate:       "2026-09-01",
		ToDate:         "2026-09-03",
		PriceID:        "price-1",
		NumberOfPeople: 2,
		WebProductID:   "prod-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "res-1", result.ReservationID)
	assert.Equal(t, "enc-1", result.EncryptedCompanyID)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/123/reservations", captured.Path)
	assert.Contains(t, captured.Body, `"priceId":"price-1"`)
}

func TestLoginEmail(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, "", &captured)

	err := client.Login(context.Background(), 123, models.LoginMethodEmail,
		models.LoginCredentials{Email: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, "/api/123/login/request/email", captured.Path)
	assert.JSONEq(t, `{"email":"a@x.com"}`, captured.Body)
}

func TestLoginSMS(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, "", &captured)

	err := client.Login(context.Background(), 123, models.LoginMethodSMS,
		models.LoginCredentials{PhoneNumber: "5551234", CountryCode: "+47"})
	require.NoError(t, err)

	assert.Equal(t, "/api/123/login/request/sms", captured.Path)
	assert.JSONEq(t, `{"phoneNumber":"5551234","countryCode":"+47"}`, captured.Body)
}

func TestLoginUnsupportedMethod(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, "", &captured)

	err := client.Login(context.Background(), 123, models.LoginMethod("fax"), models.LoginCredentials{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, captured.Path)
}

func TestValidateMobile(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{"email":"a@x.com"}`, &captured)

	raw, err := client.Validate(context.Background(), 123, "tok-1", models.LoginMethodSMS)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/api/123/validation/mobile/tok-1", captured.Path)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "a@x.com", payload["email"])
}

func TestPingReservation(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, "", &captured)

	require.NoError(t, client.PingReservation(context.Background(), 123))
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/123/reservations/ping", captured.Path)
}

func TestUpdateReservation(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, "", &captured)

	err := client.UpdateReservation(context.Background(), 123, "enc-1", "res-1",
		models.ReservationRequest{PriceID: "price-2"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, captured.Method)
	assert.Equal(t, "/api/123/reservations/enc-1/res-1", captured.Path)
}

func TestCheckout(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK,
		`{"checkoutStatus":"ok","customerId":"cust-1","terminalUrl":"https://pay.example"}`, &captured)

	result, err := client.Checkout(context.Background(), 123, models.CheckoutRequest{
		Reservations: []models.CheckoutReservationRef{
			{ReservationID: "res-1", EncryptedCompanyID: "enc-1"},
		},
		PaymentType:       models.PaymentNoOnlinePayment,
		AcceptedTerms:     true,
		ExternalReference: "visbook-res-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutOK, result.CheckoutStatus)
	assert.Equal(t, "cust-1", result.CustomerID)

	assert.Equal(t, "/api/123/checkout", captured.Path)
	assert.Contains(t, captured.Body, `"acceptedTerms":true`)
	assert.Contains(t, captured.Body, `"externalReference":"visbook-res-1"`)
}

func TestNon2xxReturnsProviderError(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusConflict, `{"message":"reservation expired"}`, &captured)

	err := client.PingReservation(context.Background(), 123)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "reservation expired")
}

func TestNon2xxWithoutMessageUsesRawBody(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusBadGateway, "upstream unavailable", &captured)

	_, err := client.CreateReservation(context.Background(), 123, models.ReservationRequest{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream unavailable")
}
