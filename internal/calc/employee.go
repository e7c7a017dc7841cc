package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

// encargosFolha aplica à folha CLT mensal as mesmas provisões e contribuições do custo
// por empregado; todas são lineares no salário, então a folha entra como um salário só.
func encargosFolha(folha decimal.Decimal, r models.Regime, f tables.FolhaParams) decimal.Decimal {
	if !folha.IsPositive() {
		return decimal.Zero
	}
	return employeeCost(models.EmployeeCostInput{Regime: r, SalarioBase: folha}, f).TotalEncargos
}

// employeeCost monta o custo mensal cheio de um empregado CLT.
// Cada parcela é arredondada a 2 casas e os totais somam as parcelas arredondadas.
func employeeCost(in models.EmployeeCostInput, f tables.FolhaParams) models.EmployeeCostResult {
	s := in.SalarioBase
	mensal := s.Div(doze)
	ferias := mensal.Add(mensal.Div(tres))

	out := models.EmployeeCostResult{
		Regime:                 in.Regime,
		SalarioBase:            s,
		ProvisaoFerias:         round2(ferias),
		ProvisaoDecimoTerceiro: round2(mensal),
		FGTS:                   round2(s.Mul(f.FGTS)),
		FGTSProvisoes:          round2(ferias.Add(mensal).Mul(f.FGTS)),
		ProvisaoMultaFGTS:      round2(s.Mul(f.MultaFGTS)),
		CPP:                    decimal.Zero,
		RAT:                    decimal.Zero,
		SalarioEducacao:        decimal.Zero,
		SistemaS:               decimal.Zero,
	}

	switch in.Regime {
	case models.RegimePresumido:
		out.CPP = round2(s.Mul(f.CPP))
		out.RAT = round2(s.Mul(f.RAT))
		out.SalarioEducacao = round2(s.Mul(f.SalarioEducacao))
		out.SistemaS = round2(s.Mul(f.SistemaS))
	case models.RegimeMEI:
		out.CPP = round2(s.Mul(f.MEICPP))
	case models.RegimeSimples:
		// contribuições já recolhidas dentro do DAS
	}

	// desconto do vale-transporte: até 6% do salário, nunca maior que o benefício
	out.ValeTransporte = in.ValeTransporte
	out.DescontoTransporte = round2(decimal.Min(s.Mul(f.DescontoVT), in.ValeTransporte))
	out.CustoTransporte = in.ValeTransporte.Sub(out.DescontoTransporte)
	out.Beneficios = sum(in.ValeRefeicao, in.PlanoSaude, in.OutrosBeneficios)

	out.TotalEncargos = sum(
		out.ProvisaoFerias, out.ProvisaoDecimoTerceiro,
		out.FGTS, out.FGTSProvisoes, out.ProvisaoMultaFGTS,
		out.CPP, out.RAT, out.SalarioEducacao, out.SistemaS,
	)
	out.CustoTotal = sum(s, out.TotalEncargos, out.CustoTransporte, out.Beneficios)
	out.CustoAnual = out.CustoTotal.Mul(doze)
	out.Multiplicador = out.CustoTotal.Div(s).Round(4)
	return out
}
