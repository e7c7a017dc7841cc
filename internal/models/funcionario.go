package models

import "github.com/shopspring/decimal"

// EmployeeCostInput: benefícios são opcionais (zero quando omitidos).
type EmployeeCostInput struct {
	Regime           Regime          `json:"regime"`
	SalarioBase      decimal.Decimal `json:"salario_base"`
	ValeTransporte   decimal.Decimal `json:"vale_transporte"`
	ValeRefeicao     decimal.Decimal `json:"vale_refeicao"`
	PlanoSaude       decimal.Decimal `json:"plano_saude"`
	OutrosBeneficios decimal.Decimal `json:"outros_beneficios"`
}

type EmployeeCostResult struct {
	Regime      Regime          `json:"regime"`
	SalarioBase decimal.Decimal `json:"salario_base"`

	// provisões
	ProvisaoFerias         decimal.Decimal `json:"provisao_ferias"`
	ProvisaoDecimoTerceiro decimal.Decimal `json:"provisao_decimo_terceiro"`

	// FGTS direto, FGTS sobre provisões e provisão da multa rescisória
	FGTS              decimal.Decimal `json:"fgts"`
	FGTSProvisoes     decimal.Decimal `json:"fgts_provisoes"`
	ProvisaoMultaFGTS decimal.Decimal `json:"provisao_multa_fgts"`

	CPP             decimal.Decimal `json:"cpp"`
	RAT             decimal.Decimal `json:"rat"`
	SalarioEducacao decimal.Decimal `json:"salario_educacao"`
	SistemaS        decimal.Decimal `json:"sistema_s"`

	ValeTransporte     decimal.Decimal `json:"vale_transporte"`
	DescontoTransporte decimal.Decimal `json:"desconto_transporte"`
	CustoTransporte    decimal.Decimal `json:"custo_transporte"`
	Beneficios         decimal.Decimal `json:"beneficios"`

	TotalEncargos decimal.Decimal `json:"total_encargos"`
	CustoTotal    decimal.Decimal `json:"custo_total"`
	CustoAnual    decimal.Decimal `json:"custo_anual"`
	Multiplicador decimal.Decimal `json:"multiplicador"`
}
