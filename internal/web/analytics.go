package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/nakupi/internal/analytics"
	"github.com/erazemk/nakupi/internal/store"
)

// Trend graph size in SVG units.
const (
	chartWidth   = 800
	chartHeight  = 200
	chartPadding = 20
)

// AnalyticsPage handles GET /analytics.
func (s *Server) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListPurchasedItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items for analytics", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	report := analytics.Compute(items, s.now())

	s.Templates.Render(w, "analytics.html", &struct {
		PageData
		Report *analytics.Report
		Chart  *analytics.TrendChart
	}{
		PageData: s.page(r, "Analytics", "analytics"),
		Report:   report,
		Chart:    report.Chart(chartWidth, chartHeight, chartPadding),
	})
}
