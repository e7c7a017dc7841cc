package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

type presumidoCalculator struct {
	t *tables.Tables
}

func (presumidoCalculator) Regime() models.Regime { return models.RegimePresumido }

// Compute aplica alíquotas fixas sobre a receita (PIS, COFINS, ISS) e sobre o lucro
// presumido por tipo de atividade (IRPJ com adicional, CSLL). Exportação não paga PIS/COFINS/ISS.
// ICMS e IPI não entram no simulador.
func (c presumidoCalculator) Compute(in models.TaxFormValues) (models.RegimeResult, error) {
	p := c.t.Presumido
	res := models.RegimeResult{Regime: models.RegimePresumido, Valido: true}

	baseIRPJ, baseCSLL := decimal.Zero, decimal.Zero
	servicoInterno := decimal.Zero
	for _, a := range in.Atividades {
		act, err := c.t.Activity(a.CNAE)
		if err != nil {
			return models.RegimeResult{}, err
		}
		pr, err := p.Presuncao(act.Tipo)
		if err != nil {
			return models.RegimeResult{}, err
		}
		receita := a.Total()
		baseIRPJ = baseIRPJ.Add(receita.Mul(pr.IRPJ))
		baseCSLL = baseCSLL.Add(receita.Mul(pr.CSLL))
		if act.Tipo == models.TipoServico {
			servicoInterno = servicoInterno.Add(a.Interna)
		}
	}

	interna := in.ReceitaInterna()
	res.Impostos = append(res.Impostos,
		imposto("PIS", interna, p.PIS, true),
		imposto("COFINS", interna, p.COFINS, true),
	)
	if servicoInterno.IsPositive() {
		res.Impostos = append(res.Impostos, imposto("ISS", servicoInterno, c.t.ISSRate(in.Cidade), true))
	}
	res.Impostos = append(res.Impostos, imposto("IRPJ", baseIRPJ, p.IRPJ, false))
	if excedente := baseIRPJ.Sub(p.LimiteAdicional); excedente.IsPositive() {
		res.Impostos = append(res.Impostos, imposto("IRPJ adicional", excedente, p.AdicionalIRPJ, false))
	}
	res.Impostos = append(res.Impostos, imposto("CSLL", baseCSLL, p.CSLL, false))

	f := c.t.Folha
	res.EncargosFolha = sum(
		encargosFolha(in.FolhaCLT, models.RegimePresumido, f),
		round2(in.TotalProLabore().Mul(f.CPP)),
	)
	res.INSSRetidoSocios = inssSocios(in.Socios, f)

	finish(&res, in)
	res.AliquotaNominal = res.AliquotaEfetiva
	return res, nil
}
