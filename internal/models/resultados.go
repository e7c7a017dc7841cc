package models

import "github.com/shopspring/decimal"

// Imposto é uma parcela do tributo devido no mês.
// Consumo marca os tributos sobre consumo (PIS, COFINS, ISS, ICMS, DAS); é só informativo.
type Imposto struct {
	Nome     string          `json:"nome"`
	Base     decimal.Decimal `json:"base"`
	Aliquota decimal.Decimal `json:"aliquota"`
	Valor    decimal.Decimal `json:"valor"`
	Consumo  bool            `json:"consumo"`
}

// FatorR guarda a razão folha/receita e o anexo resultante.
type FatorR struct {
	Razao decimal.Decimal `json:"razao"`
	Anexo Anexo           `json:"anexo"`
}

// Aliquota é o resultado da tabela progressiva para um RBT12.
type Aliquota struct {
	Faixa   int             `json:"faixa"`
	Nominal decimal.Decimal `json:"nominal"`
	Deducao decimal.Decimal `json:"deducao"`
	Efetiva decimal.Decimal `json:"efetiva"`
}

type LinhaSimples struct {
	CNAE     string          `json:"cnae"`
	Anexo    Anexo           `json:"anexo"`
	Receita  decimal.Decimal `json:"receita"`
	Aliquota Aliquota        `json:"aliquota"`
	Valor    decimal.Decimal `json:"valor"`
}

type SimplesDetalhe struct {
	FatorR FatorR         `json:"fator_r"`
	Linhas []LinhaSimples `json:"linhas"`
}

type MEIDetalhe struct {
	LimiteAnual    decimal.Decimal `json:"limite_anual"`
	ReceitaAnual   decimal.Decimal `json:"receita_anual"`
	DASMensal      decimal.Decimal `json:"das_mensal"`
	LimiteExcedido bool            `json:"limite_excedido"`
	ExcessoAcima20 bool            `json:"excesso_acima_20"`
}

// RegimeResult tem o mesmo formato para os três regimes, para o comparativo lado a lado.
type RegimeResult struct {
	Regime              Regime          `json:"regime"`
	Valido              bool            `json:"valido"`
	ReceitaBruta        decimal.Decimal `json:"receita_bruta"`
	AliquotaNominal     decimal.Decimal `json:"aliquota_nominal"`
	AliquotaEfetiva     decimal.Decimal `json:"aliquota_efetiva"`
	Impostos            []Imposto       `json:"impostos"`
	TotalImpostos       decimal.Decimal `json:"total_impostos"`
	EncargosFolha       decimal.Decimal `json:"encargos_folha"`
	CustoFolha          decimal.Decimal `json:"custo_folha"`
	INSSRetidoSocios    decimal.Decimal `json:"inss_retido_socios"`
	HonorariosContabeis decimal.Decimal `json:"honorarios_contabeis"`
	OutrasDespesas      decimal.Decimal `json:"outras_despesas"`
	CustoTotal          decimal.Decimal `json:"custo_total"`
	LucroLiquido        decimal.Decimal `json:"lucro_liquido"`
	Avisos              []string        `json:"avisos,omitempty"`

	Simples *SimplesDetalhe `json:"simples,omitempty"`
	MEI     *MEIDetalhe     `json:"mei,omitempty"`
}

// ImpostosConsumo soma as parcelas sobre consumo.
func (r RegimeResult) ImpostosConsumo() decimal.Decimal {
	total := decimal.Zero
	for _, i := range r.Impostos {
		if i.Consumo {
			total = total.Add(i.Valor)
		}
	}
	return total
}

// ImpostosMantidos soma as parcelas sobre renda e contribuição (IRPJ, CSLL, INSS do MEI).
func (r RegimeResult) ImpostosMantidos() decimal.Decimal {
	total := decimal.Zero
	for _, i := range r.Impostos {
		if !i.Consumo {
			total = total.Add(i.Valor)
		}
	}
	return total
}

type CalculationResults struct {
	VersaoTabelas string         `json:"versao_tabelas"`
	Regimes       []RegimeResult `json:"regimes"`
	MelhorRegime  Regime         `json:"melhor_regime,omitempty"`
}

func (c *CalculationResults) Regime(r Regime) (*RegimeResult, bool) {
	for i := range c.Regimes {
		if c.Regimes[i].Regime == r {
			return &c.Regimes[i], true
		}
	}
	return nil, false
}

// ReformResult mistura o tributo legado e o novo IVA para um ano da transição.
type ReformResult struct {
	Regime              Regime          `json:"regime"`
	Valido              bool            `json:"valido"`
	SujeitoReforma      bool            `json:"sujeito_reforma"`
	ImpostoLegado       decimal.Decimal `json:"imposto_legado"`
	ResidualLegado      decimal.Decimal `json:"residual_legado"`
	BaseNovoImposto     decimal.Decimal `json:"base_novo_imposto"`
	AliquotaNovoImposto decimal.Decimal `json:"aliquota_novo_imposto"`
	NovoImpostoBruto    decimal.Decimal `json:"novo_imposto_bruto"`
	Creditos            decimal.Decimal `json:"creditos"`
	NovoImpostoLiquido  decimal.Decimal `json:"novo_imposto_liquido"`
	AliquotaISSEfetiva  decimal.Decimal `json:"aliquota_iss_efetiva"`
	TotalImpostos       decimal.Decimal `json:"total_impostos"`
	CustoTotal          decimal.Decimal `json:"custo_total"`
	LucroLiquido        decimal.Decimal `json:"lucro_liquido"`
	Legado              RegimeResult    `json:"legado"`
}

type CalculationResults2026 struct {
	VersaoTabelas string          `json:"versao_tabelas"`
	Ano           int             `json:"ano"`
	Coeficiente   decimal.Decimal `json:"coeficiente"`
	Regimes       []ReformResult  `json:"regimes"`
	MelhorRegime  Regime          `json:"melhor_regime,omitempty"`
}

func (c *CalculationResults2026) Regime(r Regime) (*ReformResult, bool) {
	for i := range c.Regimes {
		if c.Regimes[i].Regime == r {
			return &c.Regimes[i], true
		}
	}
	return nil, false
}

// ReformProjection é a série ano a ano da transição.
type ReformProjection struct {
	VersaoTabelas string                   `json:"versao_tabelas"`
	Anos          []CalculationResults2026 `json:"anos"`
}
