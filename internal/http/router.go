package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/render"
	"github.com/omniinfra/platform/internal/repository"
	"github.com/omniinfra/platform/internal/service/assistant"
	"github.com/omniinfra/platform/internal/service/auth"
	"github.com/omniinfra/platform/internal/service/checklist"
	"github.com/omniinfra/platform/internal/service/github"
	"github.com/omniinfra/platform/internal/service/project"
	"github.com/omniinfra/platform/internal/ws"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	auth      auth.Service
	project   project.Service
	assistant *assistant.Service
	github    github.RepoLister
	hub       *ws.Hub
	upgrader  websocket.Upgrader
	limiter   RateLimiter
	demoUser  string
	feedLimit int
	dbHealth  func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateWindowRealtime = 30 * time.Second
	rateLimitSignup    = 5
	rateLimitLogin     = 12
	rateLimitUserWrite = 60
	rateLimitUserRead  = 120
	rateLimitRealtime  = 30
	healthCheckTimeout = 2 * time.Second
)

// RouterOptions collects optional router dependencies.
type RouterOptions struct {
	Limiter RateLimiter
	// DemoUser, when set, lets unauthenticated requests act as this
	// user instead of requiring a bearer token.
	DemoUser  string
	FeedLimit int
	DBHealth  func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, projectSvc project.Service, assistantSvc *assistant.Service, repoLister github.RepoLister, hub *ws.Hub, opts RouterOptions) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		logger:    logger,
		auth:      authSvc,
		project:   projectSvc,
		assistant: assistantSvc,
		github:    repoLister,
		hub:       hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:   opts.Limiter,
		demoUser:  opts.DemoUser,
		feedLimit: opts.FeedLimit,
		dbHealth:  opts.DBHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	if r.feedLimit <= 0 {
		r.feedLimit = 5
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("/healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/api/auth/signup", r.audit("/api/auth/signup", r.withRateLimit("/api/auth/signup", rateLimitSignup, rateWindowDefault, rateLimitKeyIP, r.handleSignup)))
	r.mux.HandleFunc("/api/auth/login", r.audit("/api/auth/login", r.withRateLimit("/api/auth/login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))
	r.mux.HandleFunc("/api/users/github-repos", r.audit("/api/users/github-repos", r.handlerAuthRate("/api/users/github-repos", rateLimitUserRead, rateWindowDefault, r.handleGithubRepos)))
	r.mux.HandleFunc("/api/projects", r.audit("/api/projects", r.handlerAuthRate("/api/projects", rateLimitUserWrite, rateWindowDefault, r.handleProjects)))
	r.mux.HandleFunc("/api/projects/set-github-repo", r.audit("/api/projects/set-github-repo", r.handlerAuthRate("/api/projects/set-github-repo", rateLimitUserWrite, rateWindowDefault, r.handleSetGithubRepo)))
	r.mux.HandleFunc("/api/projects/", r.audit("/api/projects/:id", r.handlerAuthRate("/api/projects/:id", rateLimitUserWrite, rateWindowDefault, r.handleProjectSubroutes)))
	r.mux.HandleFunc("/api/activity", r.audit("/api/activity", r.handlerAuthRate("/api/activity", rateLimitUserRead, rateWindowDefault, r.handleActivity)))
	r.mux.HandleFunc("/api/activity/stream", r.audit("/api/activity/stream", r.handlerAuthRate("/api/activity/stream", rateLimitRealtime, rateWindowRealtime, r.handleActivitySSE)))
	r.mux.HandleFunc("/ws/activity", r.audit("/ws/activity", r.handlerAuthRate("/ws/activity", rateLimitRealtime, rateWindowRealtime, r.handleActivityWS)))
}

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tokens, err := r.auth.Signup(req.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
		"tokens": tokens,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tokens, err := r.auth.Login(req.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
		"tokens": tokens,
	})
}

func (r *Router) handleGithubRepos(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	repos, err := r.github.ListRepos(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch GitHub repositories")
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (r *Router) handleProjects(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for projects", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodGet:
		projects, err := r.project.List(req.Context(), info.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]map[string]any, 0, len(projects))
		for i := range projects {
			view, err := r.projectView(&projects[i])
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, view)
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var payload struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		proj, err := r.project.Create(req.Context(), info.UserID, payload.Name, payload.Description)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, proj)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleSetGithubRepo(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		ProjectID  string             `json:"projectId"`
		GithubRepo *domain.GithubRepo `json:"githubRepo"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.ProjectID == "" || payload.GithubRepo == nil || payload.GithubRepo.FullName == "" {
		writeError(w, http.StatusBadRequest, "Missing projectId or githubRepo")
		return
	}
	proj, err := r.project.ConnectRepo(req.Context(), payload.ProjectID, payload.GithubRepo)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("GitHub repo %s connected to project %s", proj.GithubRepo.FullName, proj.ID),
	})
}

func (r *Router) handleProjectSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/api/projects/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 1 || parts[0] == "" {
		r.notFound(w)
		return
	}
	projectID := parts[0]
	if len(parts) == 1 {
		r.handleProjectDetail(w, req, projectID)
		return
	}
	switch parts[1] {
	case "analyze":
		r.handleProjectAction(w, req, projectID, r.project.Analyze)
	case "envs":
		r.handleProjectAction(w, req, projectID, r.project.ConfigureEnvironments)
	case "infrastructure":
		r.handleProjectAction(w, req, projectID, r.project.ConfigureInfrastructure)
	case "cicd":
		r.handleProjectCICD(w, req, projectID)
	case "deploy":
		r.handleProjectAction(w, req, projectID, r.project.Deploy)
	case "checklist":
		r.handleProjectChecklist(w, req, projectID)
	case "analysis":
		if len(parts) == 3 && parts[2] == "render" {
			r.handleAnalysisRender(w, req, projectID)
			return
		}
		r.notFound(w)
	case "chat":
		if len(parts) == 3 && parts[2] == "cleanup" {
			r.handleChatCleanup(w, req, projectID)
			return
		}
		if len(parts) == 2 {
			r.handleChat(w, req, projectID)
			return
		}
		r.notFound(w)
	default:
		r.notFound(w)
	}
}

func (r *Router) handleProjectDetail(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	proj, err := r.project.Get(req.Context(), projectID)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	view, err := r.projectView(proj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (r *Router) handleProjectAction(w http.ResponseWriter, req *http.Request, projectID string, action func(context.Context, string) (*domain.Project, error)) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	proj, err := action(req.Context(), projectID)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	view, err := r.projectView(proj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (r *Router) handleProjectCICD(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	proj, prURL, err := r.project.SetupCICD(req.Context(), projectID)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	view, err := r.projectView(proj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prUrl":   prURL,
		"project": view,
	})
}

func (r *Router) handleProjectChecklist(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	proj, err := r.project.Get(req.Context(), projectID)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	items := checklist.Evaluate(proj)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"id":             item.ID,
			"label":          item.Label,
			"completed":      item.Completed,
			"requiredAction": item.RequiredAction,
			"enabled":        checklist.Enabled(items, item.ID),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    out,
		"progress": checklist.Progress(items),
	})
}

func (r *Router) handleAnalysisRender(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	proj, err := r.project.Get(req.Context(), projectID)
	if err != nil {
		r.writeProjectError(w, err)
		return
	}
	if len(proj.LastAnalysisResult) == 0 {
		writeError(w, http.StatusNotFound, "no analysis result")
		return
	}
	tree, err := render.Render(proj.LastAnalysisResult)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (r *Router) handleChat(w http.ResponseWriter, req *http.Request, projectID string) {
	switch req.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, r.assistant.History(projectID))
	case http.MethodPost:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, conversationID, err := r.assistant.Send(projectID, payload.Message)
		if err != nil {
			if errors.Is(err, assistant.ErrEmptyMessage) {
				writeError(w, http.StatusBadRequest, "Message is required")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to process chat message")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":             msg.ID,
			"response":       msg.Text,
			"blocks":         assistant.ParseMarkdown(msg.Text),
			"timestamp":      msg.Timestamp,
			"role":           msg.Role,
			"suggestions":    msg.Suggestions,
			"actionItems":    msg.ActionItems,
			"conversationId": conversationID,
		})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleChatCleanup(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	r.assistant.Clear(projectID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Chat history cleared for project %s", projectID),
	})
}

func (r *Router) handleActivity(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	entries, err := r.project.RecentActivity(req.Context(), info.UserID, r.feedLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (r *Router) handleActivitySSE(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := ws.NewSSEClient(w, flusher, r.logger)
	r.hub.Register(project.ActivityStream, client)
	defer func() {
		r.hub.Unregister(project.ActivityStream, client)
		client.Close()
	}()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()
	for {
		select {
		case <-req.Context().Done():
			return
		case <-heartbeat.C:
			if err := client.Heartbeat(); err != nil {
				return
			}
		}
	}
}

func (r *Router) handleActivityWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.hub.Register(project.ActivityStream, client)
	go func() {
		defer func() {
			r.hub.Unregister(project.ActivityStream, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// projectView renders a project for API responses with env values
// decrypted back to plaintext.
func (r *Router) projectView(proj *domain.Project) (map[string]any, error) {
	raw, err := json.Marshal(proj)
	if err != nil {
		return nil, err
	}
	var view map[string]any
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, err
	}
	if proj.Envs != nil {
		envs, err := r.project.DecryptEnvs(proj)
		if err != nil {
			return nil, err
		}
		view["envs"] = envs
	}
	return view, nil
}

func (r *Router) writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, project.ErrNoAnalyzedApps):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)
		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "user_id", info.UserID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
