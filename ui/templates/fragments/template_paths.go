// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Pages
	IndexPage     = "index.html"
	DashboardPage = "dashboard.html"
	AboutPage     = "about.html"

	// Layout templates
	Header       = "layout/header.html"
	Footer       = "layout/footer.html"
	HealthBanner = "layout/health_banner.html"

	// Fragment templates
	ResultCard      = "fragments/result_card.html"
	HistoryTable    = "fragments/history_table.html"
	Notifications   = "fragments/notifications.html"
	PredictResponse = "fragments/predict_response.html"
	DashboardBody   = "fragments/dashboard_body.html"
)

// GetAllTemplatePaths returns all template paths that must be registered
func GetAllTemplatePaths() []string {
	return []string{
		IndexPage,
		DashboardPage,
		AboutPage,

		Header,
		Footer,
		HealthBanner,

		ResultCard,
		HistoryTable,
		Notifications,
		PredictResponse,
		DashboardBody,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "layout/"):
		return "layout"
	case strings.HasPrefix(templatePath, "fragments/"):
		return "fragment"
	default:
		return "page"
	}
}

// IsFragment reports whether templatePath renders a partial response
func IsFragment(templatePath string) bool {
	return GetTemplateCategory(templatePath) == "fragment"
}
