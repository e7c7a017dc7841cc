package calc

import (
	"errors"
	"testing"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
)

func TestProgressiveRate(t *testing.T) {
	tb := newTestEngine(t).Tables()
	cases := []struct {
		anexo   models.Anexo
		rbt12   string
		faixa   int
		efetiva string
	}{
		{models.AnexoI, "100000", 1, "0.04"},
		{models.AnexoI, "600000", 3, "0.0719"},
		{models.AnexoIII, "180000", 2, "0.06"},
		{models.AnexoIII, "600000", 3, "0.1056"},
		{models.AnexoIV, "600000", 3, "0.0813"},
		{models.AnexoV, "600000", 3, "0.1785"},
		{models.AnexoV, "5000000", 6, "0.197"},
	}
	for _, tc := range cases {
		table, err := tb.Annex(tc.anexo)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ProgressiveRate(d(tc.rbt12), table)
		if err != nil {
			t.Fatalf("anexo %s rbt12 %s: %v", tc.anexo, tc.rbt12, err)
		}
		if got.Faixa != tc.faixa {
			t.Fatalf("anexo %s rbt12 %s: want faixa %d got %d", tc.anexo, tc.rbt12, tc.faixa, got.Faixa)
		}
		assertDec(t, "efetiva "+string(tc.anexo)+" "+tc.rbt12, got.Efetiva, tc.efetiva)
	}
}

func TestProgressiveRateNewCompany(t *testing.T) {
	tb := newTestEngine(t).Tables()
	for _, a := range models.Anexos {
		table, _ := tb.Annex(a)
		got, err := ProgressiveRate(d("0"), table)
		if err != nil {
			t.Fatalf("anexo %s: %v", a, err)
		}
		if got.Faixa != 1 || !got.Deducao.IsZero() {
			t.Fatalf("anexo %s: want first bracket without deduction, got %+v", a, got)
		}
		if !got.Efetiva.Equal(table.Faixas[0].Nominal) || !got.Nominal.Equal(table.Faixas[0].Nominal) {
			t.Fatalf("anexo %s: effective must equal first nominal, got %+v", a, got)
		}
	}
}

// a alíquota efetiva fica sempre entre zero e a maior nominal do anexo
func TestProgressiveRateBounds(t *testing.T) {
	tb := newTestEngine(t).Tables()
	rbts := []string{
		"0", "0.01", "1", "1000", "179999.99", "180000", "180000.01", "359999", "360000",
		"719999.99", "720000", "1000000", "1799999", "1800000", "3599999.99", "3600000",
		"4800000", "4800000.01", "10000000", "999999999",
	}
	for _, a := range models.Anexos {
		table, _ := tb.Annex(a)
		teto := table.MaxNominal()
		for _, r := range rbts {
			got, err := ProgressiveRate(d(r), table)
			if err != nil {
				t.Fatalf("anexo %s rbt12 %s: %v", a, r, err)
			}
			if got.Efetiva.IsNegative() || got.Efetiva.GreaterThan(teto) {
				t.Fatalf("anexo %s rbt12 %s: effective %s outside [0, %s]", a, r, got.Efetiva, teto)
			}
		}
	}
}

func TestProgressiveRateEmptyTable(t *testing.T) {
	_, err := ProgressiveRate(d("1000"), tables.AnnexTable{Anexo: models.AnexoI})
	if !errors.Is(err, errNoBracket) {
		t.Fatalf("want errNoBracket, got %v", err)
	}
}
