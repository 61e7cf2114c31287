package ui

import (
	"net/http"
	"strconv"
	"strings"

	"newsdesk/domain/prediction"
	"newsdesk/internal/errors"
	"newsdesk/internal/notify"
	"newsdesk/internal/submission"
	"newsdesk/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// maxHistoryLimit bounds ?limit= to what the backend keeps.
const maxHistoryLimit = 100

// HealthView is the backend status line shown on every page.
type HealthView struct {
	Reachable   bool
	Healthy     bool
	ModelLoaded bool
	Total       int
}

// IndexData is the home page model.
type IndexData struct {
	Title         string
	Page          string
	Health        HealthView
	Card          *submission.ResultCard
	History       submission.HistoryTable
	Analyzing     bool
	Notifications []notify.Notification
}

// PredictData is the fragment returned to the page script after a submit.
type PredictData struct {
	Card    *submission.ResultCard
	History submission.HistoryTable
}

// PredictJSON is the JSON body of POST /predict.
type PredictJSON struct {
	Success bool                   `json:"success"`
	Card    *submission.ResultCard `json:"card,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	sid := sessionID(c)
	state := s.sessions.Get(sid)

	records, err := s.submission.ReloadHistory(c.Request.Context(), state, sid)
	if err != nil {
		s.logger.Warn("[handleIndex] History unavailable: %v", err)
	}

	s.renderTemplate(c, http.StatusOK, fragments.IndexPage, IndexData{
		Title:         "News Verdict",
		Page:          "home",
		Health:        s.healthView(c),
		Card:          s.submission.LastCard(state),
		History:       submission.BuildHistoryTable(records, s.opts.HomeHistoryLimit, s.opts.Location),
		Analyzing:     state.IsAnalyzing(),
		Notifications: s.notifier.Active(sid),
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	sid := sessionID(c)
	state := s.sessions.Get(sid)

	var req prediction.PredictRequest
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, PredictJSON{Error: "Invalid JSON body", Code: errors.CodeValidationError})
			return
		}
	} else {
		req.Title = c.PostForm("title")
		req.Text = c.PostForm("text")
	}

	card, err := s.submission.Submit(c.Request.Context(), state, sid, req)

	switch {
	case wantsJSON(c):
		if err != nil {
			c.JSON(errors.HTTPStatus(err), PredictJSON{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
			return
		}
		c.JSON(http.StatusOK, PredictJSON{Success: true, Card: card})

	case isFetch(c):
		status := http.StatusOK
		if err != nil {
			status = errors.HTTPStatus(err)
			card = s.submission.LastCard(state)
		}
		records, _ := state.History()
		s.renderTemplate(c, status, fragments.PredictResponse, PredictData{
			Card:    card,
			History: submission.BuildHistoryTable(records, s.opts.HomeHistoryLimit, s.opts.Location),
		})

	default:
		// Plain form post: the home page shows the new card and any toast.
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := s.opts.HomeHistoryLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	sid := sessionID(c)
	records, err := s.submission.ReloadHistory(c.Request.Context(), s.sessions.Get(sid), sid)
	if err != nil {
		s.logger.Warn("[handleHistory] Serving cached history: %v", err)
	}
	s.renderPartial(c, fragments.HistoryTable, submission.BuildHistoryTable(records, limit, s.opts.Location))
}

// healthView asks the backend for its status; failures render as unreachable.
func (s *Server) healthView(c *gin.Context) HealthView {
	health, err := s.client.Health(c.Request.Context())
	if err != nil {
		s.logger.Debug("Health check failed: %v", err)
		return HealthView{}
	}
	return HealthView{
		Reachable:   true,
		Healthy:     health.Healthy(),
		ModelLoaded: health.ModelLoaded,
		Total:       health.TotalPredictions,
	}
}
