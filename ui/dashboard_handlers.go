package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"

	"newsdesk/adapters/excel"
	"newsdesk/domain/prediction"
	"newsdesk/internal/analysis"
	"newsdesk/internal/charts"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/errors"
	"newsdesk/internal/notify"
	"newsdesk/internal/submission"
	"newsdesk/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardData is the dashboard page and body fragment model.
type DashboardData struct {
	Title         string
	Page          string
	Health        HealthView
	Model         *prediction.ModelInfo
	Phase         dashboard.Phase
	Rendered      bool
	View          analysis.View
	Table         submission.HistoryTable
	Charts        []string
	Notifications []notify.Notification
}

// DashboardJSON is the body of GET /api/dashboard.
type DashboardJSON struct {
	Phase dashboard.Phase `json:"phase"`
	View  *analysis.View  `json:"view,omitempty"`
}

func (s *Server) dashboardData(c *gin.Context) DashboardData {
	view, ok := s.dashboard.Current()
	data := DashboardData{
		Title:    "Statistics Dashboard",
		Page:     "dashboard",
		Model:    s.dashboard.ModelInfo(),
		Phase:    s.dashboard.Phase(),
		Rendered: ok,
		View:     view,
		Table:    submission.BuildHistoryTable(view.Recent, s.opts.DashboardHistoryLimit, s.opts.Location),
		Charts:   charts.Names,
	}
	if health := s.dashboard.Health(); health != nil {
		data.Health = HealthView{
			Reachable:   true,
			Healthy:     health.Healthy(),
			ModelLoaded: health.ModelLoaded,
			Total:       health.TotalPredictions,
		}
	}
	data.Notifications = s.notifier.Active(sessionID(c))
	return data
}

// handleDashboard runs the page-load cycle. ?partial=1 skips the fetch and
// returns the body fragment for the current view, which the page script
// requests when another refresh was pushed over SSE.
func (s *Server) handleDashboard(c *gin.Context) {
	if c.Query("partial") == "1" {
		s.renderPartial(c, fragments.DashboardBody, s.dashboardData(c))
		return
	}

	if _, err := s.dashboard.Load(c.Request.Context(), sessionID(c)); err != nil {
		s.logger.Warn("[handleDashboard] Load failed: %v", err)
	}
	s.renderTemplate(c, http.StatusOK, fragments.DashboardPage, s.dashboardData(c))
}

func (s *Server) handleDashboardRefresh(c *gin.Context) {
	_, err := s.dashboard.Refresh(c.Request.Context(), sessionID(c))

	if wantsJSON(c) {
		view, ok := s.dashboard.Current()
		body := DashboardJSON{Phase: s.dashboard.Phase()}
		if ok {
			body.View = &view
		}
		status := http.StatusOK
		if err != nil {
			status = errors.HTTPStatus(err)
		}
		c.JSON(status, body)
		return
	}
	if !isFetch(c) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	s.renderPartial(c, fragments.DashboardBody, s.dashboardData(c))
}

func (s *Server) handleDashboardJSON(c *gin.Context) {
	view, ok := s.dashboard.Current()
	if !ok {
		var err error
		view, err = s.dashboard.Refresh(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(errors.HTTPStatus(err), gin.H{"error": errors.UserMessage(err), "phase": s.dashboard.Phase()})
			return
		}
	}
	c.JSON(http.StatusOK, DashboardJSON{Phase: s.dashboard.Phase(), View: &view})
}

func (s *Server) handleChart(c *gin.Context) {
	view, ok := s.dashboard.Current()
	if !ok {
		var err error
		if view, err = s.dashboard.Refresh(c.Request.Context(), sessionID(c)); err != nil {
			c.Status(errors.HTTPStatus(err))
			return
		}
	}

	var buf bytes.Buffer
	if err := s.charts.Render(c.Param("name"), view, &buf); err != nil {
		if stderrors.Is(err, charts.ErrUnknownChart) {
			c.Status(http.StatusNotFound)
			return
		}
		s.logger.Error("[handleChart] Render %s failed: %v", c.Param("name"), err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// handleExport downloads the full current history as XLSX. It fetches
// fresh rather than reusing the dashboard view, whose table is truncated.
func (s *Server) handleExport(c *gin.Context) {
	sid := sessionID(c)
	records, err := s.client.History(c.Request.Context())
	if err != nil {
		s.notifier.FromError(sid, err)
		c.JSON(errors.HTTPStatus(err), gin.H{"error": errors.UserMessage(err)})
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteHistory(&buf, records, analysis.Summarize(records)); err != nil {
		s.logger.Error("[handleExport] %v", err)
		s.notifier.Error(sid, "Export failed. Please try again.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	filename := fmt.Sprintf("newsdesk-history-%s.xlsx", s.now().In(s.opts.Location).Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
