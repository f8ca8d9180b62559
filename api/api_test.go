package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/aydinemil/finance-tracker/internal/storage"
	"github.com/0xcafe-io/iz"
)

type noopMailer struct{}

func (noopMailer) SendPasswordReset(toEmail string, token string, otp int) error {
	return nil
}

// newTestApi wires the api over the in-memory storage with one registered
// user and returns the token pair issued at registration.
func newTestApi(t *testing.T) (*Api, auth.TokenPair) {
	t.Helper()

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     "api-test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Issuer:     "finance-tracker-test",
	})
	tracker := finance.NewTracker(storage.NewInMemoryStorage(), tokens, noopMailer{})

	pair, err := tracker.Register(context.Background(), auth.NewUser{
		FullName:      "Leyla Aliyeva",
		Email:         "leyla@example.com",
		PasswordPlain: "secure123",
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return NewApi(&tracker), pair
}

func callRefresh(t *testing.T, api *Api, header string, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("POST", "/auth/refresh", strings.NewReader(body))
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	responder := api.RefreshHandler(&iz.Request{Request: req, ResponseWriter: rec})
	if err := responder.Respond(rec, req); err != nil {
		t.Fatalf("failed to write response: %v", err)
	}

	var decoded map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return rec.Code, decoded
}

func TestRefreshHandlerAcceptsBearerHeader(t *testing.T) {
	api, pair := newTestApi(t)

	status, body := callRefresh(t, api, "Bearer "+pair.RefreshToken, "")
	if status != 200 {
		t.Fatalf("expected 200 for bearer refresh, got %d (%v)", status, body)
	}
	if access, _ := body["access_token"].(string); access == "" {
		t.Errorf("expected a new access token in the response")
	}
	if refresh, _ := body["refresh_token"].(string); refresh != pair.RefreshToken {
		t.Errorf("expected the refresh token to be echoed unchanged")
	}
}

func TestRefreshHandlerAcceptsBodyFallback(t *testing.T) {
	api, pair := newTestApi(t)

	status, body := callRefresh(t, api, "", `{"refresh_token":"`+pair.RefreshToken+`"}`)
	if status != 200 {
		t.Fatalf("expected 200 for body refresh, got %d (%v)", status, body)
	}
	if access, _ := body["access_token"].(string); access == "" {
		t.Errorf("expected a new access token in the response")
	}
}

func TestRefreshHandlerRejectsMissingToken(t *testing.T) {
	api, _ := newTestApi(t)

	status, body := callRefresh(t, api, "", "")
	if status != 400 {
		t.Fatalf("expected 400 without a token, got %d (%v)", status, body)
	}
	if msg, _ := body["message"].(string); msg != "Refresh token is required." {
		t.Errorf("unexpected message: %q", msg)
	}

	// An access token in the header is the wrong token type.
	pairApi, pair := newTestApi(t)
	status, _ = callRefresh(t, pairApi, "Bearer "+pair.AccessToken, "")
	if status != 401 {
		t.Errorf("expected 401 for an access token in the header, got %d", status)
	}
}
