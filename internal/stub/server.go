// Package stub is an in-process stand-in for the classifier backend. It
// serves the same four endpoints with the same payloads, verdict thresholds,
// preview truncation and history cap, scoring text with a pluggable Scorer
// instead of a trained model.
package stub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HistoryCap is the number of predictions the backend remembers.
const HistoryCap = 100

// Preview and history truncation limits, in characters
const (
	historyTitleLimit = 100
	historyTextLimit  = 150
	previewTitleLimit = 200
	previewTextLimit  = 300
)

// Scorer returns the fake-probability of an article in [0,1].
type Scorer func(title, text string) float64

// Option configures a Server.
type Option func(*Server)

// WithScorer replaces the keyword heuristic.
func WithScorer(s Scorer) Option {
	return func(srv *Server) { srv.scorer = s }
}

// WithClock sets the clock used for record and health timestamps.
func WithClock(now func() time.Time) Option {
	return func(srv *Server) { srv.now = now }
}

// WithModelLoaded toggles the "model not loaded" behavior.
func WithModelLoaded(loaded bool) Option {
	return func(srv *Server) { srv.modelLoaded = loaded }
}

// WithHistory pre-fills the history, oldest first.
func WithHistory(records []prediction.Record) Option {
	return func(srv *Server) { srv.Seed(records) }
}

// WithRequestLogging enables chi's access log.
func WithRequestLogging() Option {
	return func(srv *Server) { srv.accessLog = true }
}

// WithLogger sets the application logger.
func WithLogger(l *internal.Logger) Option {
	return func(srv *Server) { srv.logger = l.With("Stub") }
}

// Server is the stub backend.
type Server struct {
	router      *chi.Mux
	scorer      Scorer
	now         func() time.Time
	modelLoaded bool
	accessLog   bool
	logger      *internal.Logger

	mu      sync.RWMutex
	history []prediction.Record
	nextID  int
}

// New creates a stub backend with a loaded model and an empty history.
func New(opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		scorer:      KeywordScorer,
		now:         time.Now,
		modelLoaded: true,
		logger:      internal.NewNopLogger(),
		history:     make([]prediction.Record, 0, HistoryCap),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.accessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Get("/history", s.handleHistory)
		r.Get("/model-info", s.handleModelInfo)
		r.Get("/health", s.handleHealth)
	})
}

// ServeHTTP makes the stub usable directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Seed appends records to the history, renumbering them and applying the cap.
func (s *Server) Seed(records []prediction.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.appendLocked(r)
	}
}

// History returns a copy of the stored history, oldest first.
func (s *Server) History() []prediction.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]prediction.Record(nil), s.history...)
}

func (s *Server) appendLocked(r prediction.Record) {
	s.nextID++
	r.ID = s.nextID
	s.history = append(s.history, r)
	if len(s.history) > HistoryCap {
		s.history = append(s.history[:0:0], s.history[len(s.history)-HistoryCap:]...)
	}
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !s.modelLoaded {
		writeJSON(w, http.StatusServiceUnavailable, prediction.PredictResponse{
			Error: "Model not loaded. Please train the model first.",
		})
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, prediction.PredictResponse{Error: "No data provided"})
		return
	}
	title := stringField(body, "title")
	text := stringField(body, "text")
	if title == "" && text == "" {
		writeJSON(w, http.StatusBadRequest, prediction.PredictResponse{Error: "Please provide either title or text"})
		return
	}

	verdict := prediction.Analyze(s.scorer(title, text))

	s.mu.Lock()
	s.appendLocked(prediction.Record{
		Timestamp:   prediction.NewTimestamp(s.now()),
		Title:       prediction.Truncate(title, historyTitleLimit),
		TextPreview: prediction.Truncate(text, historyTextLimit),
		Result:      verdict.Result,
		Confidence:  verdict.Confidence,
	})
	s.mu.Unlock()

	s.logger.Debug("Predicted %s (%s)", verdict.Result, verdict.ConfidencePercentage)
	writeJSON(w, http.StatusOK, prediction.PredictResponse{
		Success:    true,
		Prediction: &verdict,
		Preview: &prediction.Preview{
			Title: prediction.Truncate(title, previewTitleLimit),
			Text:  prediction.Truncate(text, previewTextLimit),
		},
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.History()
	writeJSON(w, http.StatusOK, prediction.HistoryResponse{History: history, Count: len(history)})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if !s.modelLoaded {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "inactive",
			"message": "Model not loaded",
		})
		return
	}

	s.mu.RLock()
	total := len(s.history)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "active",
		"type":                "CNN",
		"max_words":           10000,
		"max_sequence_length": 500,
		"embedding_dim":       128,
		"total_predictions":   total,
		"architecture": map[string]interface{}{
			"type": "CNN",
			"layers": []prediction.ModelLayer{
				{Name: "Embedding", Params: "10000×128"},
				{Name: "Conv1D", Params: "128 filters, kernel_size=5"},
				{Name: "GlobalMaxPooling1D", Params: ""},
				{Name: "Dense", Params: "64 units"},
				{Name: "Dropout", Params: "0.5"},
				{Name: "Dense", Params: "1 unit (sigmoid)"},
			},
			"total_params": "~1.3M",
			"accuracy":     "95%",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	total := len(s.history)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, prediction.Health{
		Status:           "healthy",
		ModelLoaded:      s.modelLoaded,
		TokenizerLoaded:  s.modelLoaded,
		TotalPredictions: total,
		Timestamp:        prediction.NewTimestamp(s.now()).String(),
	})
}

func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
