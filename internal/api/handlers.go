package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/omniapartners/incentive-engine/internal/domain"
	"github.com/omniapartners/incentive-engine/internal/repository/postgres"
)

// Handlers holds the HTTP handlers over the report service.
type Handlers struct {
	svc       *Service
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc, startTime: time.Now()}
}

// HealthCheck reports process liveness.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// DealerObiettivi returns the incentive report for one dealer, or for
// the whole network when no dealer is given.
//
//	GET /api/obiettivi/dealer?anno=2026&mese=7&dealer=42
func (h *Handlers) DealerObiettivi(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	scope := postgres.Scope{DealerID: idParam(r, "dealer")}
	h.respondReport(w, r, period, scope)
}

// AgenteObiettivi returns the incentive report for every dealer
// assigned to one agent.
//
//	GET /api/obiettivi/agente?anno=2026&mese=7&agente=7
func (h *Handlers) AgenteObiettivi(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	agente := idParam(r, "agente")
	if agente == 0 {
		respondError(w, http.StatusBadRequest, "parametro agente mancante")
		return
	}
	h.respondReport(w, r, period, postgres.Scope{AgentID: agente})
}

// CompensiRiepilogo returns the rollup views (dealer level, province
// coverage) for one period across the whole network.
//
//	GET /api/compensi/riepilogo?anno=2026&mese=7
func (h *Handlers) CompensiRiepilogo(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	env, err := h.svc.Report(r.Context(), period, postgres.Scope{})
	if err != nil {
		h.respondComputeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runId":       env.RunID,
		"generatedAt": env.GeneratedAt,
		"fromCache":   env.FromCache,
		"periodo":     env.Report.Periodo,
		"dealer":      env.Report.Dealer,
		"province":    env.Report.Province,
	})
}

// InvalidateCache drops cached reports for one period. Hit by the
// manual-entry UI after it writes override rows.
//
//	POST /api/obiettivi/invalidate?anno=2026&mese=7
func (h *Handlers) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	h.svc.Invalidate(r.Context(), period)
	respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "periodo": period.Key()})
}

func (h *Handlers) respondReport(w http.ResponseWriter, r *http.Request, period domain.YearMonth, scope postgres.Scope) {
	env, err := h.svc.Report(r.Context(), period, scope)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (h *Handlers) respondComputeError(w http.ResponseWriter, err error) {
	sentry.CaptureException(err)
	respondError(w, http.StatusInternalServerError, err.Error())
}

// periodParam parses the mandatory anno/mese pair.
func periodParam(w http.ResponseWriter, r *http.Request) (domain.YearMonth, bool) {
	anno, _ := strconv.Atoi(r.URL.Query().Get("anno"))
	mese, _ := strconv.Atoi(r.URL.Query().Get("mese"))
	period := domain.YearMonth{Year: anno, Month: mese}
	if !period.Valid() {
		respondError(w, http.StatusBadRequest, "parametri anno/mese non validi")
		return domain.YearMonth{}, false
	}
	return period, true
}

func idParam(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
