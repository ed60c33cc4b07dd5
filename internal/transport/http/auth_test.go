package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret")

	token, err := auth.IssueToken("u1", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := auth.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "u1" || claims.Name != "Alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a").IssueToken("u1", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewAuthService("secret-b").Parse(token); err == nil {
		t.Fatalf("expected parse to fail across secrets")
	}
}

func TestJWTMiddleware(t *testing.T) {
	auth := NewAuthService("test-secret")
	var seenUserID string
	handler := JWTMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = UserIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := auth.IssueToken("u1", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if seenUserID != "u1" {
		t.Fatalf("expected user id in context, got %q", seenUserID)
	}
}

func TestGuestLoginHandler(t *testing.T) {
	auth := NewAuthService("test-secret")
	handler := GuestLoginHandler(auth, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
		Username    string `json:"username"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.AccessToken == "" || out.UserID == "" || out.Username == "" {
		t.Fatalf("incomplete login payload %+v", out)
	}

	claims, err := auth.Parse(out.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Sub != out.UserID {
		t.Fatalf("token subject %q does not match user %q", claims.Sub, out.UserID)
	}
}
