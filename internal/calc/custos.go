package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

// fechamento comum aos três regimes: soma impostos e monta custo total e lucro.
// EncargosFolha e INSSRetidoSocios já devem estar preenchidos.
func finish(res *models.RegimeResult, in models.TaxFormValues) {
	res.ReceitaBruta = in.FaturamentoMensal
	total := decimal.Zero
	for _, i := range res.Impostos {
		total = total.Add(i.Valor)
	}
	res.TotalImpostos = total
	res.AliquotaEfetiva = round6(ratio(total, in.FaturamentoMensal))

	res.HonorariosContabeis = in.HonorariosContabeis
	res.OutrasDespesas = in.DespesasCreditaveis
	res.CustoFolha = sum(in.FolhaCLT, in.TotalProLabore(), res.EncargosFolha)
	res.CustoTotal = sum(res.TotalImpostos, res.HonorariosContabeis, res.CustoFolha, res.OutrasDespesas)
	res.LucroLiquido = in.FaturamentoMensal.Sub(res.CustoTotal)
}

func imposto(nome string, base, aliquota decimal.Decimal, consumo bool) models.Imposto {
	return models.Imposto{
		Nome:     nome,
		Base:     round2(base),
		Aliquota: aliquota,
		Valor:    round2(base.Mul(aliquota)),
		Consumo:  consumo,
	}
}

// fixo é um valor mensal fixo, sem base nem alíquota
func fixo(nome string, valor decimal.Decimal, consumo bool) models.Imposto {
	return models.Imposto{Nome: nome, Valor: round2(valor), Consumo: consumo}
}

// inssSocios é a retenção de 11% do pró-labore de cada sócio, limitada ao teto do INSS.
// Sai do bolso do sócio, então é só informativo no resultado.
func inssSocios(socios []models.Socio, f tables.FolhaParams) decimal.Decimal {
	total := decimal.Zero
	for _, s := range socios {
		base := decimal.Min(s.ProLabore, f.TetoINSS)
		total = total.Add(round2(base.Mul(f.INSSSocio)))
	}
	return total
}

// melhorRegime escolhe o regime válido de menor custo total. Empate fica com o primeiro da lista.
func melhorRegime(custos map[models.Regime]decimal.Decimal, validos map[models.Regime]bool) models.Regime {
	var melhor models.Regime
	var menor decimal.Decimal
	for _, r := range models.Regimes {
		c, ok := custos[r]
		if !ok || !validos[r] {
			continue
		}
		if melhor == "" || c.LessThan(menor) {
			melhor, menor = r, c
		}
	}
	return melhor
}
