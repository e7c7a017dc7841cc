package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

// blendReform mistura o resultado legado com o IVA dual para um coeficiente c:
//
//	residual = imposto total do regime × (1 − c)
//	bruto    = receita interna × (CBS + IBS) × c
//	créditos = despesas creditáveis × (CBS + IBS) × c × fração B2B
//	total    = max(0, residual + bruto − créditos)
//
// Com c = 0 o total é exatamente o do regime legado. MEI fica fora da reforma.
func blendReform(leg models.RegimeResult, in models.TaxFormValues, c decimal.Decimal, t *tables.Tables) models.ReformResult {
	out := models.ReformResult{
		Regime:           leg.Regime,
		Valido:           leg.Valido,
		ImpostoLegado: leg.TotalImpostos,
		Legado:        leg,
	}

	if leg.Regime == models.RegimeMEI {
		out.ResidualLegado = leg.TotalImpostos
		out.TotalImpostos = leg.TotalImpostos
		out.CustoTotal = leg.CustoTotal
		out.LucroLiquido = leg.LucroLiquido
		return out
	}

	out.SujeitoReforma = true
	aliquota := t.Reforma.Aliquota()
	out.ResidualLegado = round2(leg.TotalImpostos.Mul(um.Sub(c)))
	out.BaseNovoImposto = in.ReceitaInterna()
	out.AliquotaNovoImposto = round6(aliquota.Mul(c))
	out.NovoImpostoBruto = round2(out.BaseNovoImposto.Mul(aliquota).Mul(c))
	out.Creditos = round2(in.DespesasCreditaveis.Mul(aliquota).Mul(c).Mul(in.FatorB2B()))
	out.NovoImpostoLiquido = out.NovoImpostoBruto.Sub(out.Creditos)
	out.AliquotaISSEfetiva = round6(t.ISSRate(in.Cidade).Mul(um.Sub(c)))

	total := out.ResidualLegado.Add(out.NovoImpostoLiquido)
	if total.IsNegative() {
		total = decimal.Zero
	}
	out.TotalImpostos = total
	out.CustoTotal = leg.CustoTotal.Sub(leg.TotalImpostos).Add(total)
	out.LucroLiquido = in.FaturamentoMensal.Sub(out.CustoTotal)
	return out
}
