package calc

/*

go test -v ./internal/calc -count=1

*/

import (
	"errors"
	"sync"
	"testing"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/shopspring/decimal"
)

func TestSimplesFatorRAnnexIII(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.ComputeLegacyTaxes(softwareForm())
	if err != nil {
		t.Fatal(err)
	}
	s := regime(t, res, models.RegimeSimples)
	if !s.Valido || s.Simples == nil {
		t.Fatalf("simples should be valid with detail: %+v", s)
	}
	if s.Simples.FatorR.Anexo != models.AnexoIII {
		t.Fatalf("fator r 0.3 should route to annex III, got %s", s.Simples.FatorR.Anexo)
	}
	assertDec(t, "efetiva", s.AliquotaEfetiva, "0.1056")
	assertDec(t, "das", s.TotalImpostos, "5280")
	// provisões 1666.67 + 1250, FGTS 1200 + 233.33, multa 600
	assertDec(t, "encargos", s.EncargosFolha, "4950")
	assertDec(t, "inss socios", s.INSSRetidoSocios, "550")
	assertDec(t, "custo folha", s.CustoFolha, "24950")
	assertDec(t, "custo total", s.CustoTotal, "31030")
	assertDec(t, "lucro", s.LucroLiquido, "18970")
}

func TestSimplesFatorRAnnexV(t *testing.T) {
	in := softwareForm()
	in.FP12 = d("120000")
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	s := regime(t, res, models.RegimeSimples)
	if s.Simples.Linhas[0].Anexo != models.AnexoV {
		t.Fatalf("fator r 0.2 should route to annex V, got %s", s.Simples.Linhas[0].Anexo)
	}
	assertDec(t, "das", s.TotalImpostos, "8925")
}

func TestSimplesPerCNAEWithCompanyRBT12(t *testing.T) {
	in := softwareForm()
	in.Atividades = []models.ReceitaCNAE{
		{CNAE: "6201501", Interna: d("30000")},
		{CNAE: "4781400", Interna: d("20000")},
	}
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	s := regime(t, res, models.RegimeSimples)
	if len(s.Simples.Linhas) != 2 {
		t.Fatalf("want 2 lines, got %d", len(s.Simples.Linhas))
	}
	assertDec(t, "anexo III line", s.Simples.Linhas[0].Valor, "3168")
	assertDec(t, "anexo I line", s.Simples.Linhas[1].Valor, "1438")
	assertDec(t, "das", s.TotalImpostos, "4606")
	// 0.6 × 13.5% + 0.4 × 9.5%
	assertDec(t, "nominal ponderada", s.AliquotaNominal, "0.119")
}

func TestSimplesAnnexIVPaysCPPOutsideDAS(t *testing.T) {
	in := softwareForm()
	in.Atividades = []models.ReceitaCNAE{{CNAE: "4120400", Interna: d("50000")}}
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	s := regime(t, res, models.RegimeSimples)
	assertDec(t, "das", s.TotalImpostos, "4065")
	// provisões e FGTS 4950 + CPP 20% de (15000 + 5000) + RAT 2% de 15000
	assertDec(t, "encargos", s.EncargosFolha, "9250")
	if len(s.Avisos) == 0 {
		t.Fatal("annex IV should carry a warning")
	}
}

func TestSimplesCeilingAndSublimit(t *testing.T) {
	e := newTestEngine(t)

	in := softwareForm()
	in.RBT12 = d("5000000")
	res, err := e.ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	if s := regime(t, res, models.RegimeSimples); s.Valido || len(s.Avisos) == 0 {
		t.Fatalf("rbt12 above 4.8M must invalidate simples: %+v", s)
	}

	in.RBT12 = d("4000000")
	res, err = e.ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	if s := regime(t, res, models.RegimeSimples); !s.Valido || len(s.Avisos) == 0 {
		t.Fatalf("rbt12 above sublimit keeps simples valid with a warning: %+v", s)
	}
}

func TestPresumidoServices(t *testing.T) {
	res, err := newTestEngine(t).ComputeLegacyTaxes(softwareForm())
	if err != nil {
		t.Fatal(err)
	}
	p := regime(t, res, models.RegimePresumido)
	want := map[string]string{
		"PIS":    "325",
		"COFINS": "1500",
		"ISS":    "2500",
		"IRPJ":   "2400",
		"CSLL":   "1440",
	}
	for nome, v := range want {
		i, ok := findImposto(p, nome)
		if !ok {
			t.Fatalf("%s missing", nome)
		}
		assertDec(t, nome, i.Valor, v)
	}
	if _, ok := findImposto(p, "IRPJ adicional"); ok {
		t.Fatal("presumed profit of 16k must not pay the surcharge")
	}
	assertDec(t, "total", p.TotalImpostos, "8165")
	assertDec(t, "consumo", p.ImpostosConsumo(), "4325")
	assertDec(t, "mantidos", p.ImpostosMantidos(), "3840")
	// provisões e FGTS 4950 + CPP/RAT/SE/S 4170 sobre a folha + pró-labore 5000 × 20%
	assertDec(t, "encargos", p.EncargosFolha, "10120")
	assertDec(t, "custo total", p.CustoTotal, "39085")
	assertDec(t, "lucro", p.LucroLiquido, "10915")
}

func TestPresumidoSurchargeAndExports(t *testing.T) {
	in := softwareForm()
	in.Atividades = []models.ReceitaCNAE{{CNAE: "6201501", Interna: d("80000"), Externa: d("20000")}}
	in.FaturamentoMensal = d("100000")
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	p := regime(t, res, models.RegimePresumido)
	checks := map[string]string{
		"PIS":            "520",
		"COFINS":         "2400",
		"ISS":            "4000",
		"IRPJ":           "4800",
		"IRPJ adicional": "1200",
		"CSLL":           "2880",
	}
	for nome, v := range checks {
		i, ok := findImposto(p, nome)
		if !ok {
			t.Fatalf("%s missing", nome)
		}
		assertDec(t, nome, i.Valor, v)
	}
}

func TestPresumidoCommerceHasNoISS(t *testing.T) {
	in := softwareForm()
	in.Atividades = []models.ReceitaCNAE{{CNAE: "4781400", Interna: d("50000")}}
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	p := regime(t, res, models.RegimePresumido)
	if _, ok := findImposto(p, "ISS"); ok {
		t.Fatal("commerce must not pay ISS")
	}
	// presunção de 8% / 12%
	irpj, _ := findImposto(p, "IRPJ")
	csll, _ := findImposto(p, "CSLL")
	assertDec(t, "irpj", irpj.Valor, "600")
	assertDec(t, "csll", csll.Valor, "540")
}

func TestMEIValid(t *testing.T) {
	in := models.TaxFormValues{
		Atividades:        []models.ReceitaCNAE{{CNAE: "9602501", Interna: d("5000")}},
		FaturamentoMensal: d("5000"),
		RBT12:             d("60000"),
	}
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	m := regime(t, res, models.RegimeMEI)
	if !m.Valido || m.MEI == nil || m.MEI.LimiteExcedido {
		t.Fatalf("mei should be valid: %+v", m)
	}
	// INSS 5% de 1518 + ISS 5
	assertDec(t, "das", m.MEI.DASMensal, "80.9")
	assertDec(t, "total", m.TotalImpostos, "80.9")
	if res.MelhorRegime != models.RegimeMEI {
		t.Fatalf("mei should be the cheapest regime, got %s", res.MelhorRegime)
	}
}

func TestMEICommerceAndServiceDAS(t *testing.T) {
	in := models.TaxFormValues{
		Atividades: []models.ReceitaCNAE{
			{CNAE: "4781400", Interna: d("3000")},
			{CNAE: "9602501", Interna: d("2000")},
		},
		FaturamentoMensal: d("5000"),
		RBT12:             d("60000"),
	}
	res, err := newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	assertDec(t, "das", regime(t, res, models.RegimeMEI).TotalImpostos, "81.9")
}

func TestMEICeiling(t *testing.T) {
	cases := []struct {
		name     string
		rbt12    string
		mensal   string
		excedido bool
		acima20  bool
	}{
		{"at the limit", "81000", "6750", false, false},
		{"above up to 20%", "90000", "7500", true, false},
		{"above 20%", "100000", "8000", true, true},
		{"new company annualized", "0", "8000", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := models.TaxFormValues{
				Atividades:        []models.ReceitaCNAE{{CNAE: "9602501", Interna: d(tc.mensal)}},
				FaturamentoMensal: d(tc.mensal),
				RBT12:             d(tc.rbt12),
			}
			res, err := newTestEngine(t).ComputeLegacyTaxes(in)
			if err != nil {
				t.Fatal(err)
			}
			m := regime(t, res, models.RegimeMEI)
			if m.MEI.LimiteExcedido != tc.excedido || m.MEI.ExcessoAcima20 != tc.acima20 {
				t.Fatalf("want excedido=%v acima20=%v, got %+v", tc.excedido, tc.acima20, m.MEI)
			}
			if m.Valido == tc.excedido {
				t.Fatalf("validity must follow the ceiling state, valido=%v", m.Valido)
			}
			// DAS continua calculado mesmo acima do limite
			assertDec(t, "das", m.TotalImpostos, "80.9")
		})
	}
}

func TestMEIInvalidForCNAEAndPartners(t *testing.T) {
	res, err := newTestEngine(t).ComputeLegacyTaxes(softwareForm())
	if err != nil {
		t.Fatal(err)
	}
	if m := regime(t, res, models.RegimeMEI); m.Valido {
		t.Fatal("software development is not allowed under MEI")
	}

	in := models.TaxFormValues{
		Atividades:        []models.ReceitaCNAE{{CNAE: "9602501", Interna: d("5000")}},
		FaturamentoMensal: d("5000"),
		RBT12:             d("60000"),
		Socios:            []models.Socio{{Nome: "A"}, {Nome: "B"}},
	}
	res, err = newTestEngine(t).ComputeLegacyTaxes(in)
	if err != nil {
		t.Fatal(err)
	}
	if m := regime(t, res, models.RegimeMEI); m.Valido {
		t.Fatal("mei with two partners must be invalid")
	}
}

// a folha da comparação custa o mesmo que a soma dos empregados no cálculo individual
func TestPayrollMatchesEmployeeCost(t *testing.T) {
	e := newTestEngine(t)
	for _, r := range models.Regimes {
		in := models.TaxFormValues{
			Atividades:        []models.ReceitaCNAE{{CNAE: "9602501", Interna: d("20000")}},
			FaturamentoMensal: d("20000"),
			RBT12:             d("240000"),
			FolhaCLT:          d("3000"),
		}
		res, err := e.ComputeLegacyTaxes(in)
		if err != nil {
			t.Fatal(err)
		}
		emp, err := e.ComputeEmployeeCost(models.EmployeeCostInput{Regime: r, SalarioBase: d("3000")})
		if err != nil {
			t.Fatal(err)
		}
		got := regime(t, res, r)
		if !got.EncargosFolha.Equal(emp.TotalEncargos) {
			t.Fatalf("%s: payroll charges %s != employee charges %s", r, got.EncargosFolha, emp.TotalEncargos)
		}
		if !got.CustoFolha.Equal(emp.CustoTotal) {
			t.Fatalf("%s: payroll cost %s != employee cost %s", r, got.CustoFolha, emp.CustoTotal)
		}
	}
	assertDec(t, "presumido s=3000", mustEncargos(t, e, models.RegimePresumido), "1824")
}

func mustEncargos(t *testing.T, e *Engine, r models.Regime) decimal.Decimal {
	t.Helper()
	emp, err := e.ComputeEmployeeCost(models.EmployeeCostInput{Regime: r, SalarioBase: d("3000")})
	if err != nil {
		t.Fatal(err)
	}
	return emp.TotalEncargos
}

func TestLegacyComparison(t *testing.T) {
	res, err := newTestEngine(t).ComputeLegacyTaxes(softwareForm())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regimes) != 3 {
		t.Fatalf("want 3 regimes, got %d", len(res.Regimes))
	}
	for i, r := range models.Regimes {
		if res.Regimes[i].Regime != r {
			t.Fatalf("regime order: want %s at %d, got %s", r, i, res.Regimes[i].Regime)
		}
	}
	if res.MelhorRegime != models.RegimeSimples {
		t.Fatalf("want simples as cheapest valid regime, got %s", res.MelhorRegime)
	}
	if res.VersaoTabelas != "2025.1" {
		t.Fatalf("versao: %s", res.VersaoTabelas)
	}
}

func TestUnknownCNAEIsClassificationError(t *testing.T) {
	in := softwareForm()
	in.Atividades[0].CNAE = "9999999"
	_, err := newTestEngine(t).ComputeLegacyTaxes(in)
	var ce *models.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("want ClassificationError, got %v", err)
	}
	if !errors.Is(err, models.ErrUnknownCNAE) {
		t.Fatal("want ErrUnknownCNAE in chain")
	}
}

func TestInvalidInputIsRejectedBeforeEngine(t *testing.T) {
	in := softwareForm()
	in.FolhaCLT = d("-1")
	_, err := newTestEngine(t).ComputeLegacyTaxes(in)
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Field != "folha_clt" {
		t.Fatalf("want ValidationError on folha_clt, got %v", err)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	in := softwareForm()
	if _, err := newTestEngine(t).ComputeLegacyTaxes(in); err != nil {
		t.Fatal(err)
	}
	if in.Atividades[0].CNAE != "6201-5/01" {
		t.Fatalf("caller input was modified: %q", in.Atividades[0].CNAE)
	}
}

func TestUnknownRegimeCalculator(t *testing.T) {
	_, err := newTestEngine(t).Calculator("lucro_real")
	if !errors.Is(err, models.ErrUnknownRegime) {
		t.Fatalf("want ErrUnknownRegime, got %v", err)
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	want, err := e.ComputeLegacyTaxes(softwareForm())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.ComputeLegacyTaxes(softwareForm())
			if err != nil {
				errs <- err
				return
			}
			for j := range got.Regimes {
				if !got.Regimes[j].CustoTotal.Equal(want.Regimes[j].CustoTotal) {
					errs <- errors.New("concurrent result differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
