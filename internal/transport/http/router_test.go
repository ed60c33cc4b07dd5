package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoquiz-service/internal/engine"
	"geoquiz-service/internal/infra/memory"
)

func testServer(t *testing.T) (*httptest.Server, *AuthService) {
	t.Helper()
	pools := memory.NewPoolRepository(memory.NewSeededPoolLoader(), time.Minute)
	service := engine.NewService(pools, memory.NewSessionRegistry(), memory.NewStatsStore())
	auth := NewAuthService("test-secret")

	server := httptest.NewServer(NewRouter(service, auth, nil))
	t.Cleanup(server.Close)
	return server, auth
}

func TestHealthz(t *testing.T) {
	server, _ := testServer(t)
	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCountriesEndpoint(t *testing.T) {
	server, _ := testServer(t)
	resp, err := http.Get(server.URL + "/api/countries?count=5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Countries []map[string]any `json:"countries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Countries) != 5 {
		t.Fatalf("expected 5 countries, got %d", len(out.Countries))
	}
}

func TestProblemsEndpointValidation(t *testing.T) {
	server, _ := testServer(t)
	resp, err := http.Get(server.URL + "/api/problems?difficulty=impossible")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad difficulty, got %d", resp.StatusCode)
	}
}

func TestMatchRoundEndpoint(t *testing.T) {
	server, _ := testServer(t)
	resp, err := http.Get(server.URL + "/api/quiz/countries-capitals?pairs=4")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Questions []struct {
			Options []string `json:"options"`
		} `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(out.Questions))
	}
	for _, q := range out.Questions {
		if len(q.Options) != 4 {
			t.Fatalf("expected the shared 4-capital option list, got %v", q.Options)
		}
	}
}

func TestStatsRequiresAuth(t *testing.T) {
	server, auth := testServer(t)

	resp, err := http.Get(server.URL + "/api/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	token, err := auth.IssueToken("u1", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}

	var out struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.UserID != "u1" {
		t.Fatalf("expected stats for u1, got %+v", out)
	}
}
