package dashboard

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/metrics"
	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/analytics"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
)

// Handler serves the last known-good pipeline artifacts to the
// dashboard. All endpoints are read-only; the CLI stages are the only
// writers.
type Handler struct {
	segments  segments.Store
	analytics analytics.Store
	artifacts artifacts.Store
}

func NewHandler(segmentStore segments.Store, analyticsStore analytics.Store, artifactStore artifacts.Store) *Handler {
	return &Handler{
		segments:  segmentStore,
		analytics: analyticsStore,
		artifacts: artifactStore,
	}
}

func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.segments.GetTrends(ctx)
	if err != nil {
		h.serverError(w, r, "failed to load weekly trends", err)
		return
	}

	response := make([]api.WeeklyTrend, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapWeeklyTrendDomainToApi(adapters.MapWeeklyTrendStoreToDomain(row)))
	}

	metrics.SetArtifactRows("weekly_trends", len(response))
	h.writeJSON(w, r, response)
}

func (h *Handler) ListSegments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := segments.Filter{
		SegmentType: r.URL.Query().Get("type"),
		Period:      r.URL.Query().Get("bucket"),
	}

	rows, err := h.segments.GetStats(ctx, filter)
	if err != nil {
		h.serverError(w, r, "failed to load segment stats", err)
		return
	}

	response := make([]api.SegmentStat, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapSegmentStatDomainToApi(adapters.MapSegmentStatStoreToDomain(row)))
	}

	metrics.SetArtifactRows("segment_stats", len(response))
	h.writeJSON(w, r, response)
}

func (h *Handler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.analytics.GetAnomalies(ctx)
	if err != nil {
		h.serverError(w, r, "failed to load anomalies", err)
		return
	}

	response := make([]api.Anomaly, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapAnomalyDomainToApi(adapters.MapAnomalyStoreToDomain(row)))
	}

	metrics.SetArtifactRows("anomalies", len(response))
	h.writeJSON(w, r, response)
}

func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.analytics.GetInsights(ctx)
	if err != nil {
		h.serverError(w, r, "failed to load insights", err)
		return
	}

	response := make([]api.Insight, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapInsightDomainToApi(adapters.MapInsightStoreToDomain(row)))
	}

	metrics.SetArtifactRows("insights", len(response))
	h.writeJSON(w, r, response)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.artifacts.ReadSummary(ctx)
	if err != nil {
		h.serverError(w, r, "failed to load analysis summary", err)
		return
	}

	h.writeJSON(w, r, summary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}
