package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/domain"
)

// Handler exposes the quest API over REST.
type Handler struct {
	service *app.GameService
}

func NewHandler(service *app.GameService) *Handler {
	return &Handler{service: service}
}

// Register wires all routes onto the mux. Admin reads are intentionally
// unauthenticated (internal deployment); fence them at the proxy if exposed.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("GET /api/user/profile", h.requireAuth(h.profile))
	mux.HandleFunc("GET /api/game/level/{level}", h.requireAuth(h.levelQuestions))
	mux.HandleFunc("POST /api/game/level/{level}/submit", h.requireAuth(h.submitLevel))
	mux.HandleFunc("GET /api/game/leaderboard", h.leaderboard)
	mux.HandleFunc("GET /api/admin/users", h.adminUsers)
	mux.HandleFunc("GET /api/admin/rewards", h.adminRewards)
	mux.HandleFunc("GET /api/admin/export/rewards", h.adminExportRewards)
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/", h.root)
}

type loginRequest struct {
	Username   string `json:"username"`
	PostingKey string `json:"postingKey"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	Username    string `json:"username"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid login payload")
		return
	}
	if req.Username == "" || req.PostingKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "username and postingKey are required")
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.PostingKey)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		Username:    session.Username,
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request, username string) {
	profile, err := h.service.Profile(r.Context(), username)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type levelQuestionsResponse struct {
	Level          int                     `json:"level"`
	Questions      []domain.PublicQuestion `json:"questions"`
	TotalQuestions int                     `json:"totalQuestions"`
}

func (h *Handler) levelQuestions(w http.ResponseWriter, r *http.Request, username string) {
	level, ok := levelFromPath(w, r)
	if !ok {
		return
	}
	questions, err := h.service.LevelQuestions(r.Context(), username, level)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levelQuestionsResponse{
		Level:          level,
		Questions:      questions,
		TotalQuestions: len(questions),
	})
}

type submitRequest struct {
	Answers          []int `json:"answers"`
	TimeTakenSeconds int   `json:"timeTakenSeconds"`
}

func (h *Handler) submitLevel(w http.ResponseWriter, r *http.Request, username string) {
	level, ok := levelFromPath(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid submission payload")
		return
	}

	result, err := h.service.SubmitLevel(r.Context(), username, level, req.Answers, req.TimeTakenSeconds)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := app.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

func (h *Handler) adminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.AllUsers(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) adminRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.service.RewardClaims(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rewards": rewards})
}

func (h *Handler) adminExportRewards(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.ExportPendingRewards(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blurt Quest: Puzzle for Tokens API"})
}

// requireAuth resolves the bearer token and passes the username through.
func (h *Handler) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		username, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		next(w, r, username)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func levelFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_level", domain.ErrInvalidLevel.Error())
		return 0, false
	}
	return level, true
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeServiceError maps domain errors to stable kinds and status codes.
// Collaborator failures surface as internal, never as authentication errors.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidLevel):
		writeError(w, http.StatusBadRequest, "invalid_level", err.Error())
	case errors.Is(err, domain.ErrLevelLocked):
		writeError(w, http.StatusForbidden, "level_locked", err.Error())
	case errors.Is(err, domain.ErrAnswerCountMismatch):
		writeError(w, http.StatusBadRequest, "answer_count_mismatch", err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
