package models

import "github.com/shopspring/decimal"

type Regime string

const (
	RegimeSimples   Regime = "simples"
	RegimePresumido Regime = "presumido"
	RegimeMEI       Regime = "mei"
)

// Regimes lista os regimes na ordem em que aparecem no comparativo.
var Regimes = []Regime{RegimeSimples, RegimePresumido, RegimeMEI}

func (r Regime) Valid() bool {
	switch r {
	case RegimeSimples, RegimePresumido, RegimeMEI:
		return true
	}
	return false
}

// Anexo do Simples Nacional (I a V).
type Anexo string

const (
	AnexoI   Anexo = "I"
	AnexoII  Anexo = "II"
	AnexoIII Anexo = "III"
	AnexoIV  Anexo = "IV"
	AnexoV   Anexo = "V"
)

var Anexos = []Anexo{AnexoI, AnexoII, AnexoIII, AnexoIV, AnexoV}

func (a Anexo) Valid() bool {
	for _, x := range Anexos {
		if a == x {
			return true
		}
	}
	return false
}

type TipoAtividade string

const (
	TipoComercio  TipoAtividade = "comercio"
	TipoIndustria TipoAtividade = "industria"
	TipoServico   TipoAtividade = "servico"
)

// ReceitaCNAE é a receita mensal de um CNAE, separada entre mercado interno e exportação.
type ReceitaCNAE struct {
	CNAE    string          `json:"cnae"`
	Interna decimal.Decimal `json:"receita_interna"`
	Externa decimal.Decimal `json:"receita_externa"`
}

func (r ReceitaCNAE) Total() decimal.Decimal { return r.Interna.Add(r.Externa) }

type Socio struct {
	Nome      string          `json:"nome"`
	ProLabore decimal.Decimal `json:"pro_labore"`
}

// TaxFormValues é o formulário validado que a camada de apresentação entrega ao motor.
// PercentualB2B vai de 0 a 100.
type TaxFormValues struct {
	Cidade              string          `json:"cidade"`
	Atividades          []ReceitaCNAE   `json:"atividades"`
	FaturamentoMensal   decimal.Decimal `json:"faturamento_mensal"`
	RBT12               decimal.Decimal `json:"rbt12"`
	FP12                decimal.Decimal `json:"fp12"`
	FolhaCLT            decimal.Decimal `json:"folha_clt"`
	Socios              []Socio         `json:"socios"`
	HonorariosContabeis decimal.Decimal `json:"honorarios_contabeis"`
	PercentualB2B       decimal.Decimal `json:"percentual_b2b"`
	DespesasCreditaveis decimal.Decimal `json:"despesas_creditaveis"`
}

func (v TaxFormValues) ReceitaInterna() decimal.Decimal {
	total := decimal.Zero
	for _, a := range v.Atividades {
		total = total.Add(a.Interna)
	}
	return total
}

func (v TaxFormValues) ReceitaExterna() decimal.Decimal {
	total := decimal.Zero
	for _, a := range v.Atividades {
		total = total.Add(a.Externa)
	}
	return total
}

func (v TaxFormValues) TotalProLabore() decimal.Decimal {
	total := decimal.Zero
	for _, s := range v.Socios {
		total = total.Add(s.ProLabore)
	}
	return total
}

// FatorB2B devolve o percentual B2B como fração (0..1).
func (v TaxFormValues) FatorB2B() decimal.Decimal {
	return v.PercentualB2B.Div(decimal.NewFromInt(100))
}
