// Package calc é o motor de simulação: Fator R, tabela progressiva, regimes,
// transição da reforma e custo do empregado. Funções puras sobre tabelas imutáveis;
// um Engine pode ser usado por várias goroutines ao mesmo tempo.
package calc

import (
	"fmt"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

// RegimeCalculator calcula um mês de tributos para um regime.
type RegimeCalculator interface {
	Regime() models.Regime
	Compute(in models.TaxFormValues) (models.RegimeResult, error)
}

type Engine struct {
	t     *tables.Tables
	calcs map[models.Regime]RegimeCalculator
}

func NewEngine(t *tables.Tables) *Engine {
	e := &Engine{t: t, calcs: make(map[models.Regime]RegimeCalculator, len(models.Regimes))}
	for _, c := range []RegimeCalculator{
		simplesCalculator{t: t},
		presumidoCalculator{t: t},
		meiCalculator{t: t},
	} {
		e.calcs[c.Regime()] = c
	}
	return e
}

func (e *Engine) Tables() *tables.Tables { return e.t }

// Calculator devolve a implementação do regime pela tag.
func (e *Engine) Calculator(r models.Regime) (RegimeCalculator, error) {
	c, ok := e.calcs[r]
	if !ok {
		return nil, fmt.Errorf("regime %q: %w", r, models.ErrUnknownRegime)
	}
	return c, nil
}

// ComputeLegacyTaxes roda os três regimes sobre o mesmo formulário e aponta o mais barato.
func (e *Engine) ComputeLegacyTaxes(in models.TaxFormValues) (models.CalculationResults, error) {
	if err := in.Validate(); err != nil {
		return models.CalculationResults{}, err
	}
	regimes, err := e.legacy(in)
	if err != nil {
		return models.CalculationResults{}, err
	}

	custos := make(map[models.Regime]decimal.Decimal, len(regimes))
	validos := make(map[models.Regime]bool, len(regimes))
	for _, r := range regimes {
		custos[r.Regime] = r.CustoTotal
		validos[r.Regime] = r.Valido
	}
	return models.CalculationResults{
		VersaoTabelas: e.t.Version(),
		Regimes:       regimes,
		MelhorRegime:  melhorRegime(custos, validos),
	}, nil
}

func (e *Engine) legacy(in models.TaxFormValues) ([]models.RegimeResult, error) {
	out := make([]models.RegimeResult, 0, len(models.Regimes))
	for _, r := range models.Regimes {
		c, err := e.Calculator(r)
		if err != nil {
			return nil, err
		}
		res, err := c.Compute(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// ComputeReformTaxes simula um ano da transição (2026..2033).
func (e *Engine) ComputeReformTaxes(in models.TaxFormValues, ano int) (models.CalculationResults2026, error) {
	if err := models.ValidateReformYear(ano); err != nil {
		return models.CalculationResults2026{}, err
	}
	if err := in.Validate(); err != nil {
		return models.CalculationResults2026{}, err
	}
	legado, err := e.legacy(in)
	if err != nil {
		return models.CalculationResults2026{}, err
	}
	return e.reform(in, legado, ano)
}

// ComputeReformProjection devolve a série de todos os anos da tabela de transição.
// O cálculo legado roda uma vez só; cada ano muda apenas o coeficiente.
func (e *Engine) ComputeReformProjection(in models.TaxFormValues) (models.ReformProjection, error) {
	if err := in.Validate(); err != nil {
		return models.ReformProjection{}, err
	}
	legado, err := e.legacy(in)
	if err != nil {
		return models.ReformProjection{}, err
	}
	out := models.ReformProjection{VersaoTabelas: e.t.Version()}
	for _, ano := range e.t.Years() {
		r, err := e.reform(in, legado, ano)
		if err != nil {
			return models.ReformProjection{}, err
		}
		out.Anos = append(out.Anos, r)
	}
	return out, nil
}

func (e *Engine) reform(in models.TaxFormValues, legado []models.RegimeResult, ano int) (models.CalculationResults2026, error) {
	c, err := e.t.Coefficient(ano)
	if err != nil {
		return models.CalculationResults2026{}, err
	}
	out := models.CalculationResults2026{
		VersaoTabelas: e.t.Version(),
		Ano:           ano,
		Coeficiente:   c,
		Regimes:       make([]models.ReformResult, 0, len(legado)),
	}
	custos := make(map[models.Regime]decimal.Decimal, len(legado))
	validos := make(map[models.Regime]bool, len(legado))
	for _, leg := range legado {
		r := blendReform(leg, in, c, e.t)
		out.Regimes = append(out.Regimes, r)
		custos[r.Regime] = r.CustoTotal
		validos[r.Regime] = r.Valido
	}
	out.MelhorRegime = melhorRegime(custos, validos)
	return out, nil
}

// ComputeEmployeeCost calcula o custo mensal cheio de um empregado no regime informado.
func (e *Engine) ComputeEmployeeCost(in models.EmployeeCostInput) (models.EmployeeCostResult, error) {
	if err := in.Validate(); err != nil {
		return models.EmployeeCostResult{}, err
	}
	return employeeCost(in, e.t.Folha), nil
}
