package calc

import (
	"testing"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("%s: want %s got %s", name, want, got.String())
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tb, err := tables.Embedded()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	return NewEngine(tb)
}

// empresa de software: 50k/mês, RBT12 600k, folha 15k, um sócio com pró-labore de 5k
func softwareForm() models.TaxFormValues {
	return models.TaxFormValues{
		Cidade:              "São Paulo",
		Atividades:          []models.ReceitaCNAE{{CNAE: "6201-5/01", Interna: d("50000")}},
		FaturamentoMensal:   d("50000"),
		RBT12:               d("600000"),
		FP12:                d("180000"),
		FolhaCLT:            d("15000"),
		Socios:              []models.Socio{{Nome: "Ana", ProLabore: d("5000")}},
		HonorariosContabeis: d("800"),
	}
}

func regime(t *testing.T, res models.CalculationResults, r models.Regime) models.RegimeResult {
	t.Helper()
	got, ok := res.Regime(r)
	if !ok {
		t.Fatalf("regime %s missing from results", r)
	}
	return *got
}

func findImposto(res models.RegimeResult, nome string) (models.Imposto, bool) {
	for _, i := range res.Impostos {
		if i.Nome == nome {
			return i, true
		}
	}
	return models.Imposto{}, false
}
