package calc

import (
	"fmt"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
	"github.com/shopspring/decimal"
)

type simplesCalculator struct {
	t *tables.Tables
}

func (simplesCalculator) Regime() models.Regime { return models.RegimeSimples }

// Compute tributa cada CNAE pela tabela do seu anexo usando o RBT12 da empresa toda.
// Receita de exportação entra na mesma alíquota efetiva (sem segregar PIS/COFINS/ICMS/ISS).
func (c simplesCalculator) Compute(in models.TaxFormValues) (models.RegimeResult, error) {
	res := models.RegimeResult{Regime: models.RegimeSimples, Valido: true}
	fr := ClassifyFatorR(in.FP12, in.RBT12, c.t.Simples.FatorRMinimo)
	det := &models.SimplesDetalhe{FatorR: fr}

	anexoIV := false
	nominalPonderada := decimal.Zero
	receitaTotal := decimal.Zero
	for _, a := range in.Atividades {
		act, err := c.t.Activity(a.CNAE)
		if err != nil {
			return models.RegimeResult{}, err
		}
		anexo := act.Anexo
		if act.FatorR {
			anexo = fr.Anexo
		}
		if anexo == models.AnexoIV {
			anexoIV = true
		}
		table, err := c.t.Annex(anexo)
		if err != nil {
			return models.RegimeResult{}, err
		}
		aliq, err := ProgressiveRate(in.RBT12, table)
		if err != nil {
			return models.RegimeResult{}, err
		}

		receita := a.Total()
		linha := models.LinhaSimples{
			CNAE:     act.CNAE,
			Anexo:    anexo,
			Receita:  receita,
			Aliquota: aliq,
			Valor:    round2(receita.Mul(aliq.Efetiva)),
		}
		det.Linhas = append(det.Linhas, linha)
		res.Impostos = append(res.Impostos, models.Imposto{
			Nome:     fmt.Sprintf("DAS %s (Anexo %s)", utils.FormatCNAE(act.CNAE), anexo),
			Base:     receita,
			Aliquota: aliq.Efetiva,
			Valor:    linha.Valor,
			Consumo:  true,
		})
		nominalPonderada = nominalPonderada.Add(receita.Mul(aliq.Nominal))
		receitaTotal = receitaTotal.Add(receita)
	}
	if receitaTotal.IsZero() {
		res.AliquotaNominal = det.Linhas[0].Aliquota.Nominal
	} else {
		res.AliquotaNominal = round6(nominalPonderada.Div(receitaTotal))
	}
	res.Simples = det

	f := c.t.Folha
	encargos := encargosFolha(in.FolhaCLT, models.RegimeSimples, f)
	// Anexo IV recolhe a CPP fora do DAS
	if anexoIV {
		cpp := round2(in.FolhaCLT.Add(in.TotalProLabore()).Mul(f.CPP))
		rat := round2(in.FolhaCLT.Mul(f.RAT))
		encargos = sum(encargos, cpp, rat)
		res.Avisos = append(res.Avisos, "Anexo IV: CPP e RAT recolhidos fora do DAS")
	}
	res.EncargosFolha = encargos
	res.INSSRetidoSocios = inssSocios(in.Socios, f)

	switch {
	case in.RBT12.GreaterThan(c.t.Simples.Teto):
		res.Valido = false
		res.Avisos = append(res.Avisos, fmt.Sprintf("RBT12 acima do teto do Simples Nacional (R$ %s)", c.t.Simples.Teto.StringFixed(2)))
	case in.RBT12.GreaterThan(c.t.Simples.Sublimite):
		res.Avisos = append(res.Avisos, fmt.Sprintf("RBT12 acima do sublimite (R$ %s): ICMS e ISS passam a ser recolhidos fora do DAS", c.t.Simples.Sublimite.StringFixed(2)))
	}

	finish(&res, in)
	return res, nil
}
