package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/omniinfra/platform/internal/repository/memory"
	"github.com/omniinfra/platform/internal/service/analyzer"
	"github.com/omniinfra/platform/internal/service/assistant"
	"github.com/omniinfra/platform/internal/service/auth"
	"github.com/omniinfra/platform/internal/service/github"
	"github.com/omniinfra/platform/internal/service/project"
	"github.com/omniinfra/platform/internal/ws"
	"github.com/omniinfra/platform/pkg/config"
)

func newTestRouter(t *testing.T, demoUser string) *Router {
	t.Helper()
	store := memory.NewSeeded()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{
		JWTSecret:       "router-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
	hub := ws.NewHub()
	authSvc := auth.New(store, logger, cfg)
	projectSvc := project.New(store, store, analyzer.NewStatic(0, 0), hub, logger, "router-test-env-secret")
	router := NewRouter(logger, authSvc, projectSvc, assistant.New(logger), github.NewStatic(0, 0), hub, RouterOptions{
		DemoUser:  demoUser,
		FeedLimit: 5,
	})
	t.Cleanup(router.Close)
	return router
}

func doJSON(t *testing.T, router *Router, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			decoded = nil
		}
	}
	return rec, decoded
}

func TestGithubReposList(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	req := httptest.NewRequest(http.MethodGet, "/api/users/github-repos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var repos []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &repos); err != nil {
		t.Fatal(err)
	}
	if len(repos) != 8 {
		t.Fatalf("got %d repos, want 8", len(repos))
	}
	if repos[0]["full_name"] != "company/omniinfra-backend" {
		t.Errorf("first repo = %v", repos[0]["full_name"])
	}
}

func TestSetGithubRepoValidation(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)

	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/set-github-repo", `{"projectId":"proj-1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Missing projectId or githubRepo" {
		t.Errorf("error = %v", body["error"])
	}

	rec, body = doJSON(t, router, http.MethodPost, "/api/projects/set-github-repo",
		`{"projectId":"proj-1","githubRepo":{"full_name":"company/omniinfra-backend"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "company/omniinfra-backend") {
		t.Errorf("message = %q", msg)
	}
}

func TestSetGithubRepoUnknownProject(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/set-github-repo",
		`{"projectId":"missing","githubRepo":{"full_name":"company/x"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "project not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestChatRoundTrip(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)

	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/chat", `{"message":"Can you help me deploy?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if body["role"] != "assistant" {
		t.Errorf("role = %v", body["role"])
	}
	response, _ := body["response"].(string)
	if !strings.Contains(response, "deploy") {
		t.Errorf("response = %q", response)
	}
	if body["conversationId"] == "" || body["conversationId"] == nil {
		t.Error("conversationId missing")
	}
	if _, ok := body["blocks"]; !ok {
		t.Error("blocks missing")
	}

	// conversation id stays stable across turns
	first := body["conversationId"]
	_, body = doJSON(t, router, http.MethodPost, "/api/projects/proj-1/chat", `{"message":"hello"}`)
	if body["conversationId"] != first {
		t.Errorf("conversationId changed: %v -> %v", first, body["conversationId"])
	}
}

func TestChatRequiresMessage(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/chat", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Message is required" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestChatCleanup(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	if rec, _ := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/chat", `{"message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/chat/cleanup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanup status = %d", rec.Code)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "proj-1") {
		t.Errorf("message = %q", msg)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1/chat", nil)
	recHist := httptest.NewRecorder()
	router.ServeHTTP(recHist, req)
	var history []any
	if err := json.Unmarshal(recHist.Body.Bytes(), &history); err == nil && len(history) != 0 {
		t.Errorf("history not cleared: %v", history)
	}
}

func TestChecklistEndpoint(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	rec, body := doJSON(t, router, http.MethodGet, "/api/projects/proj-2/checklist", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["progress"] != float64(100) {
		t.Errorf("progress = %v, want 100", body["progress"])
	}
	items, _ := body["items"].([]any)
	if len(items) != 6 {
		t.Fatalf("got %d items, want 6", len(items))
	}
	first, _ := items[0].(map[string]any)
	if first["id"] != "connect-repo" {
		t.Errorf("first item = %v", first["id"])
	}
}

func TestSetupFlowThroughAPI(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)

	steps := []string{
		"/api/projects/proj-1/analyze",
		"/api/projects/proj-1/envs",
		"/api/projects/proj-1/infrastructure",
	}
	if rec, _ := doJSON(t, router, http.MethodPost, "/api/projects/set-github-repo",
		`{"projectId":"proj-1","githubRepo":{"full_name":"company/omniinfra-backend"}}`); rec.Code != http.StatusOK {
		t.Fatalf("connect failed: %d", rec.Code)
	}
	for _, path := range steps {
		if rec, body := doJSON(t, router, http.MethodPost, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d body %v", path, rec.Code, body)
		}
	}

	rec, body := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/cicd", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cicd status = %d", rec.Code)
	}
	if body["prUrl"] != "https://github.com/company/omniinfra-backend/pull/42" {
		t.Errorf("prUrl = %v", body["prUrl"])
	}

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/deploy", ""); rec.Code != http.StatusOK {
		t.Fatalf("deploy status = %d", rec.Code)
	}

	_, body = doJSON(t, router, http.MethodGet, "/api/projects/proj-1/checklist", "")
	if body["progress"] != float64(100) {
		t.Errorf("progress after full flow = %v", body["progress"])
	}
}

func TestEnvsRequireAnalysis(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	rec, _ := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/envs", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalysisRenderEndpoint(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/projects/proj-1/analysis/render", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unanalyzed project status = %d, want 404", rec.Code)
	}

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/projects/proj-1/analyze", ""); rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rec.Code)
	}
	rec, body := doJSON(t, router, http.MethodGet, "/api/projects/proj-1/analysis/render", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d", rec.Code)
	}
	if body["kind"] != "document" {
		t.Errorf("root kind = %v", body["kind"])
	}
}

func TestActivityFeed(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if entries[0]["text"] != "Deployed Analytics Service to production" {
		t.Errorf("newest = %v", entries[0]["text"])
	}
}

func TestAuthRequiredWithoutDemoMode(t *testing.T) {
	router := newTestRouter(t, "")
	rec, _ := doJSON(t, router, http.MethodGet, "/api/activity", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSignupLoginFlow(t *testing.T) {
	router := newTestRouter(t, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/signup", `{"username":"alex2","password":"hunter2"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body %v", rec.Code, body)
	}
	tokens, _ := body["tokens"].(map[string]any)
	access, _ := tokens["AccessToken"].(string)
	if access == "" {
		t.Fatal("no access token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recList := httptest.NewRecorder()
	router.ServeHTTP(recList, req)
	if recList.Code != http.StatusOK {
		t.Fatalf("projects status = %d body %s", recList.Code, recList.Body)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, memory.DemoUserID)
	rec, body := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}
