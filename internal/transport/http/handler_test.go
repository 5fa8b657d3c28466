package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/domain"
	"blurt-quest-service/internal/infra/memory"
)

func TestLoginAndSubmitFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	token := login(t, server, "alice", "key-alice")

	// Fetch level 1 questions; the grading secret must never appear.
	body := authedGet(t, server, "/api/game/level/1", token, http.StatusOK)
	if strings.Contains(string(body), "correctAnswer") {
		t.Fatalf("correct answer leaked: %s", body)
	}
	var levelResp struct {
		Level          int `json:"level"`
		TotalQuestions int `json:"totalQuestions"`
	}
	mustUnmarshal(t, body, &levelResp)
	if levelResp.Level != 1 || levelResp.TotalQuestions != 3 {
		t.Fatalf("unexpected level payload: %s", body)
	}

	// Submit all-correct answers.
	body = authedPost(t, server, "/api/game/level/1/submit", token,
		`{"answers":[1,2,0],"timeTakenSeconds":42}`, http.StatusOK)
	var result domain.SubmitResult
	mustUnmarshal(t, body, &result)
	if result.CorrectCount != 3 || result.PointsEarned != 30 || !result.Passed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.LevelUnlocked || result.RewardEarned != 1.0 {
		t.Fatalf("expected unlock and 1.0 reward: %+v", result)
	}

	// Profile reflects the completion.
	body = authedGet(t, server, "/api/user/profile", token, http.StatusOK)
	var profile domain.Profile
	mustUnmarshal(t, body, &profile)
	if profile.CurrentLevel != 2 || profile.TotalScore != 30 || profile.LevelsCompleted != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestLoginRejectsBadKey(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/auth/login", "application/json",
		bytes.NewBufferString(`{"username":"alice","postingKey":"wrong"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	assertErrorKind(t, resp.Body, "unauthorized")
}

func TestLockedLevelReturns403(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	token := login(t, server, "alice", "key-alice")
	body := authedGet(t, server, "/api/game/level/2", token, http.StatusForbidden)
	assertErrorKind(t, bytes.NewReader(body), "level_locked")
}

func TestInvalidLevelReturns400(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	token := login(t, server, "alice", "key-alice")
	body := authedGet(t, server, "/api/game/level/99", token, http.StatusBadRequest)
	assertErrorKind(t, bytes.NewReader(body), "invalid_level")
}

func TestAnswerCountMismatchReturns400(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	token := login(t, server, "alice", "key-alice")
	body := authedPost(t, server, "/api/game/level/1/submit", token,
		`{"answers":[1,2],"timeTakenSeconds":5}`, http.StatusBadRequest)
	assertErrorKind(t, bytes.NewReader(body), "answer_count_mismatch")
}

func TestMissingTokenReturns401(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/user/profile")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLeaderboardIsOpen(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/game/leaderboard")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminExportRewards(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	token := login(t, server, "alice", "key-alice")
	authedPost(t, server, "/api/game/level/1/submit", token,
		`{"answers":[1,2,0],"timeTakenSeconds":10}`, http.StatusOK)

	resp, err := http.Get(server.URL + "/api/admin/export/rewards")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var export domain.RewardExport
	if err := json.NewDecoder(resp.Body).Decode(&export); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if export.TotalClaims != 1 || export.TotalPendingRewards != 1.0 {
		t.Fatalf("unexpected export: %+v", export)
	}
}

func newTestServer() *httptest.Server {
	verifier := memory.NewStaticVerifier(map[string]string{"alice": "key-alice"})
	questions := memory.NewStaticQuestionStore([]domain.Question{
		{ID: "q1", Level: 1, Prompt: "Pick B", Options: []string{"A", "B", "C"}, CorrectAnswer: 1, Points: 10, Category: "general"},
		{ID: "q2", Level: 1, Prompt: "Pick C", Options: []string{"A", "B", "C"}, CorrectAnswer: 2, Points: 10, Category: "general"},
		{ID: "q3", Level: 1, Prompt: "Pick A", Options: []string{"A", "B", "C"}, CorrectAnswer: 0, Points: 10, Category: "general"},
		{ID: "q4", Level: 2, Prompt: "Pick A", Options: []string{"A", "B", "C"}, CorrectAnswer: 0, Points: 15, Category: "general"},
	})
	service := app.NewGameService(verifier, questions, memory.NewLedger(), memory.NewSessionStore(domain.SessionTTL))

	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	return httptest.NewServer(mux)
}

func login(t *testing.T, server *httptest.Server, username, key string) string {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json",
		bytes.NewBufferString(`{"username":"`+username+`","postingKey":"`+key+`"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	var session struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if session.TokenType != "bearer" || session.AccessToken == "" {
		t.Fatalf("unexpected session: %+v", session)
	}
	return session.AccessToken
}

func authedGet(t *testing.T, server *httptest.Server, path, token string, wantStatus int) []byte {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, server.URL+path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return doRequest(t, req, wantStatus)
}

func authedPost(t *testing.T, server *httptest.Server, path, token, body string, wantStatus int) []byte {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, server.URL+path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, req, wantStatus)
}

func doRequest(t *testing.T, req *http.Request, wantStatus int) []byte {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, resp.StatusCode, body)
	}
	return body
}

func mustUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
}

func assertErrorKind(t *testing.T, body io.Reader, kind string) {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error.Kind != kind {
		t.Fatalf("expected error kind %q, got %q", kind, resp.Error.Kind)
	}
}
