package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
)

type meiCalculator struct {
	t *tables.Tables
}

func (meiCalculator) Regime() models.Regime { return models.RegimeMEI }

// Compute devolve o DAS-MEI fixo. Receita acima do limite anual não é erro:
// o resultado sai com Valido=false e MEI.LimiteExcedido marcado.
func (c meiCalculator) Compute(in models.TaxFormValues) (models.RegimeResult, error) {
	m := c.t.MEI
	res := models.RegimeResult{Regime: models.RegimeMEI, Valido: true}

	comercioOuIndustria, servico := false, false
	for _, a := range in.Atividades {
		act, err := c.t.Activity(a.CNAE)
		if err != nil {
			return models.RegimeResult{}, err
		}
		if !act.MEI {
			res.Valido = false
			res.Avisos = append(res.Avisos, "CNAE "+utils.FormatCNAE(act.CNAE)+" não é permitido ao MEI")
		}
		if act.Tipo == models.TipoServico {
			servico = true
		} else {
			comercioOuIndustria = true
		}
	}
	if len(in.Socios) > 1 {
		res.Valido = false
		res.Avisos = append(res.Avisos, "MEI não admite sócios")
	}

	res.Impostos = append(res.Impostos, imposto("INSS (DAS-MEI)", m.SalarioMinimo, m.INSS, false))
	if comercioOuIndustria {
		res.Impostos = append(res.Impostos, fixo("ICMS (DAS-MEI)", m.ICMS, true))
	}
	if servico {
		res.Impostos = append(res.Impostos, fixo("ISS (DAS-MEI)", m.ISS, true))
	}

	anual := in.RBT12
	if anual.IsZero() {
		anual = in.FaturamentoMensal.Mul(doze)
	}
	det := &models.MEIDetalhe{LimiteAnual: m.LimiteAnual, ReceitaAnual: anual}
	if anual.GreaterThan(m.LimiteAnual) {
		det.LimiteExcedido = true
		det.ExcessoAcima20 = anual.GreaterThan(m.LimiteAnual.Mul(um.Add(m.ToleranciaExcesso)))
		res.Valido = false
		if det.ExcessoAcima20 {
			res.Avisos = append(res.Avisos, "Receita anual excede o limite do MEI em mais de 20%: desenquadramento retroativo ao início do ano")
		} else {
			res.Avisos = append(res.Avisos, "Receita anual acima do limite do MEI: excesso tributado e desenquadramento no ano seguinte")
		}
	}

	f := c.t.Folha
	res.EncargosFolha = encargosFolha(in.FolhaCLT, models.RegimeMEI, f)

	finish(&res, in)
	det.DASMensal = res.TotalImpostos
	res.MEI = det
	res.AliquotaNominal = res.AliquotaEfetiva
	return res, nil
}
