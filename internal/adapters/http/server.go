package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"botwatch/internal/domain"
	"botwatch/internal/logging"
	"botwatch/internal/ports"
	"botwatch/internal/services/botscore"
	profilesvc "botwatch/internal/services/profiles"
)

type Server struct {
	scorer ports.BotScorer
	scores ports.ScoreReader
	logger logging.Logger
}

func New(scorer ports.BotScorer, scores ports.ScoreReader, logger logging.Logger) *Server {
	return &Server{scorer: scorer, scores: scores, logger: logger}
}

// Routes returns a chi.Router with the health, admin, score and metrics
// endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.getHealthz)
	r.Post("/admin/bot-scores/run", s.postRunBatch)
	r.Get("/accounts/{id}/bot-score", s.getBotScore)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type runResponse struct {
	OK        bool      `json:"ok"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	RunID     string    `json:"runId"`
	RanAt     time.Time `json:"ranAt"`
}

type botScoreResponse struct {
	AccountID        string                `json:"accountId"`
	Username         string                `json:"username,omitempty"`
	BotScore         float64               `json:"botScore"`
	BehaviorFeatures *domain.FeatureRecord `json:"behaviorFeatures"`
	LastComputedAt   *time.Time            `json:"lastComputedAt"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) getHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postRunBatch(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		return
	}
	req := ports.BatchRequest{Trigger: botscore.TriggerManual}
	if limit != nil {
		if *limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		req.Limit = *limit
	}
	res, err := s.scorer.RunBatch(r.Context(), req)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("bot score run failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "bot score run failed"})
		return
	}
	writeJSON(w, http.StatusOK, runResponse{
		OK:        true,
		Processed: res.Processed,
		Failed:    res.Failed,
		RunID:     res.RunID,
		RanAt:     res.RanAt,
	})
}

func (s *Server) getBotScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	score, err := s.scores.GetLatest(r.Context(), id)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		s.logger.WithError(err).WithField("account_id", id).Error("bot score lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, botScoreResponse{
		AccountID:        score.AccountID,
		Username:         score.Username,
		BotScore:         score.BotScore,
		BehaviorFeatures: score.BehaviorFeatures,
		LastComputedAt:   score.LastComputedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
