package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/simulador-tributario/internal/broker"
	"github.com/Werneck0live/simulador-tributario/internal/calc"
	"github.com/Werneck0live/simulador-tributario/internal/fx"
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/repository"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
)

const maxBody = 1 << 20

type EventPublisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}

type QuoteSource interface {
	USDBRL(ctx context.Context) fx.Quote
}

type VersionStore interface {
	ListVersions(ctx context.Context) ([]repository.VersionInfo, error)
}

// SimulationHandler expõe o motor por HTTP. Pub e Versions são opcionais.
type SimulationHandler struct {
	Engine   *calc.Engine
	Pub      EventPublisher
	FX       QuoteSource
	Versions VersionStore
	Log      *slog.Logger
}

func NewSimulationHandler(engine *calc.Engine, pub EventPublisher, quotes QuoteSource, log *slog.Logger) *SimulationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SimulationHandler{Engine: engine, Pub: pub, FX: quotes, Log: log.With("cmp", "handlers")}
}

func (h *SimulationHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, HealthDTO{Status: "ok", VersaoTabelas: h.Engine.Tables().Version()})
}

func (h *SimulationHandler) decodeForm(w http.ResponseWriter, r *http.Request) (models.TaxFormValues, bool) {
	var in models.TaxFormValues
	if err := utils.DecodeStrict(http.MaxBytesReader(w, r.Body, maxBody), &in); err != nil {
		field, msg := utils.DescribeDecodeError(err)
		utils.WriteError(w, http.StatusBadRequest, msg, field)
		return in, false
	}
	return in, true
}

func (h *SimulationHandler) Legacy(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.ComputeLegacyTaxes(in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	out := LegacyResponse{CalculationResults: res}
	if externa := in.ReceitaExterna(); externa.IsPositive() && h.FX != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		q := h.FX.USDBRL(ctx)
		cancel()
		out.Cambio = &CambioDTO{Quote: q, ReceitaExternaBRL: externa, ReceitaExternaUSD: q.ToUSD(externa)}
	}

	h.Log.Info("simulation_computed", "tipo", broker.KindLegado, "melhor_regime", res.MelhorRegime)
	h.publish(broker.LegacyEvent(res))
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *SimulationHandler) Reform(w http.ResponseWriter, r *http.Request) {
	ano, err := parseYear(mux.Vars(r)["ano"])
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	in, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.ComputeReformTaxes(in, ano)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("simulation_computed", "tipo", broker.KindReforma, "ano", ano, "melhor_regime", res.MelhorRegime)
	h.publish(broker.ReformEvent(res))
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *SimulationHandler) Projection(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.ComputeReformProjection(in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("simulation_computed", "tipo", broker.KindProjecao, "anos", len(res.Anos))
	h.publish(broker.ProjectionEvent(res))
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *SimulationHandler) Employee(w http.ResponseWriter, r *http.Request) {
	var in models.EmployeeCostInput
	if err := utils.DecodeStrict(http.MaxBytesReader(w, r.Body, maxBody), &in); err != nil {
		field, msg := utils.DescribeDecodeError(err)
		utils.WriteError(w, http.StatusBadRequest, msg, field)
		return
	}
	res, err := h.Engine.ComputeEmployeeCost(in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("simulation_computed", "tipo", broker.KindFuncionario, "regime", res.Regime)
	h.publish(broker.EmployeeEvent(res, h.Engine.Tables().Version()))
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *SimulationHandler) TablesSummary(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.Engine.Tables().Summary())
}

func (h *SimulationHandler) TableVersions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	list, err := h.Versions.ListVersions(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *SimulationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	utils.WriteJSON(w, http.StatusOK, h.FX.USDBRL(ctx))
}

// publish é best-effort: falha no broker não derruba a simulação.
func (h *SimulationHandler) publish(ev broker.Event) {
	if h.Pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Pub.Publish(ctx, ev); err != nil {
		h.Log.Warn("event_publish_error", "tipo", ev.Tipo, "id", ev.ID, "err", err)
	}
}
