package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/mindecho/internal/app/journal"
	"github.com/PabloGalante/mindecho/internal/app/reflection"
	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

type Server struct {
	reflections *reflection.Service
	journal     *journal.Service
}

type Options struct {
	RateLimit float64 // requests per second per client; <= 0 disables limiting
	RateBurst int
}

func NewServer(reflections *reflection.Service, journalSvc *journal.Service, opts Options) http.Handler {
	s := &Server{
		reflections: reflections,
		journal:     journalSvc,
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /vocabulary", s.handleVocabulary)
	mux.Handle("GET /metrics", promhttp.Handler())

	// POST /sessions → join with an email
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	// DELETE /sessions/{id} → clear session / logout
	mux.HandleFunc("DELETE /sessions/{id}", s.handleClearSession)
	mux.HandleFunc("PUT /sessions/{id}/interests", s.handleChooseInterests)
	mux.HandleFunc("POST /sessions/{id}/reflections", s.handleSubmitReflection)
	mux.HandleFunc("GET /sessions/{id}/dashboard", s.handleDashboard)

	// innermost first: rejected requests still get CORS headers and a log line
	var middlewares []func(http.Handler) http.Handler
	if opts.RateLimit > 0 {
		middlewares = append(middlewares, withRateLimit(newClientLimiter(opts.RateLimit, opts.RateBurst, limiterIdleTTL)))
	}
	middlewares = append(middlewares,
		withCORS,
		withLogging,
		// request id is outermost so every other layer can log it
		withRequestID,
	)

	return chainMiddlewares(mux, middlewares...)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Email string `json:"email"`
}

type chooseInterestsRequest struct {
	Interests []string `json:"interests"`
}

type submitReflectionRequest struct {
	Text       string `json:"text"`
	CyclePhase string `json:"cycle_phase,omitempty"`
}

type sessionResponse struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	Interests        []domain.Interest `json:"interests"`
	Ready            bool              `json:"ready"`
	State            string            `json:"state"`
	ConsistencyScore int               `json:"consistency_score"`
	CreatedAt        time.Time         `json:"created_at"`
}

type getSessionResponse struct {
	Session     sessionResponse       `json:"session"`
	History     []domain.JournalEntry `json:"history"`
	LastInsight *domain.InsightResult `json:"last_insight,omitempty"`
	LastError   string                `json:"last_error,omitempty"`
}

type submitReflectionResponse struct {
	Insight          domain.InsightResult `json:"insight"`
	Entry            domain.JournalEntry  `json:"entry"`
	ConsistencyScore int                  `json:"consistency_score"`
}

type vocabularyResponse struct {
	Interests    []domain.Interest   `json:"interests"`
	CyclePhases  []domain.CyclePhase `json:"cycle_phases"`
	MinInterests int                 `json:"min_interests"`
	MaxInterests int                 `json:"max_interests"`
	AnalysisMode string              `json:"analysis_mode"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, vocabularyResponse{
		Interests:    domain.Interests,
		CyclePhases:  domain.CyclePhases,
		MinInterests: domain.MinInterests,
		MaxInterests: domain.MaxInterests,
		AnalysisMode: s.reflections.Mode(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess, err := s.reflections.StartSession(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.reflections.GetSession(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := getSessionResponse{
		Session: toSessionResponse(sess),
		History: nonNil(sess.History()),
	}
	last, lastErr := sess.LastOutcome()
	resp.LastInsight = last
	if lastErr != nil {
		resp.LastError = lastErr.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.reflections.ClearSession(r.Context(), sessionID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChooseInterests(w http.ResponseWriter, r *http.Request) {
	var req chooseInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	interests := make([]domain.Interest, 0, len(req.Interests))
	for _, raw := range req.Interests {
		i, err := domain.ParseInterest(raw)
		if err != nil {
			badRequest(w, "unknown interest: "+raw)
			return
		}
		interests = append(interests, i)
	}

	sess, err := s.reflections.ChooseInterests(r.Context(), sessionID(r), interests)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleSubmitReflection(w http.ResponseWriter, r *http.Request) {
	var req submitReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	phase, err := domain.ParseCyclePhase(req.CyclePhase)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	id := sessionID(r)
	out, err := s.reflections.Submit(r.Context(), id, reflection.SubmitInput{
		Text:       req.Text,
		CyclePhase: phase,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := s.reflections.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitReflectionResponse{
		Insight:          out.Insight,
		Entry:            out.Entry,
		ConsistencyScore: sess.ConsistencyScore(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.journal.Dashboard(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d.Interests == nil {
		d.Interests = []domain.Interest{}
	}
	if d.Frequency.Bars == nil {
		d.Frequency.Bars = []journal.PatternBar{}
	}
	writeJSON(w, http.StatusOK, d)
}

// ─────────────────────────────────────────────
// Session Helpers
// ─────────────────────────────────────────────

func sessionID(r *http.Request) domain.SessionID {
	return domain.SessionID(r.PathValue("id"))
}

func toSessionResponse(sess *domain.Session) sessionResponse {
	interests := sess.Interests()
	if interests == nil {
		interests = []domain.Interest{}
	}
	return sessionResponse{
		ID:               string(sess.ID),
		Username:         sess.User.Username,
		Email:            sess.User.Email,
		Interests:        interests,
		Ready:            sess.Ready(),
		State:            string(sess.State()),
		ConsistencyScore: sess.ConsistencyScore(),
		CreatedAt:        sess.CreatedAt,
	}
}

func nonNil(entries []domain.JournalEntry) []domain.JournalEntry {
	if entries == nil {
		return []domain.JournalEntry{}
	}
	return entries
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err))
	case errors.Is(err, domain.ErrAnalysisFailed):
		writeJSON(w, http.StatusBadGateway, errorBody(err))
	case errors.Is(err, domain.ErrOnboardingIncomplete),
		errors.Is(err, domain.ErrAnalysisInFlight),
		errors.Is(err, domain.ErrInterestsAlreadySet),
		errors.Is(err, domain.ErrSessionExists):
		writeJSON(w, http.StatusConflict, errorBody(err))
	case errors.Is(err, domain.ErrEmptyReflection),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrTooFewInterests),
		errors.Is(err, domain.ErrTooManyInterests),
		errors.Is(err, domain.ErrUnknownInterest),
		errors.Is(err, domain.ErrDuplicateInterest),
		errors.Is(err, domain.ErrUnknownCyclePhase):
		badRequest(w, err.Error())
	default:
		internalError(w, r, err)
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
