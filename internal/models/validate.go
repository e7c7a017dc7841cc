package models

import (
	"github.com/Werneck0live/simulador-tributario/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	PrimeiroAnoReforma = 2026
	UltimoAnoReforma   = 2033
)

// tolerância para a soma das receitas por CNAE bater com o faturamento informado
var toleranciaSoma = decimal.New(1, -2)

var cem = decimal.NewFromInt(100)

func naoNegativo(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must be >= 0")
	}
	return nil
}

// Validate checa forma e faixa do formulário e normaliza os CNAEs para só dígitos.
// Não consulta as tabelas: CNAE sem anexo é erro de classificação, tratado pelo motor.
func (v *TaxFormValues) Validate() error {
	if len(v.Atividades) == 0 {
		return invalid("atividades", "at least one cnae is required")
	}

	money := []struct {
		field string
		val   decimal.Decimal
	}{
		{"faturamento_mensal", v.FaturamentoMensal},
		{"rbt12", v.RBT12},
		{"fp12", v.FP12},
		{"folha_clt", v.FolhaCLT},
		{"honorarios_contabeis", v.HonorariosContabeis},
		{"despesas_creditaveis", v.DespesasCreditaveis},
		{"percentual_b2b", v.PercentualB2B},
	}
	for _, m := range money {
		if err := naoNegativo(m.field, m.val); err != nil {
			return err
		}
	}
	if v.PercentualB2B.GreaterThan(cem) {
		return invalid("percentual_b2b", "must be between 0 and 100")
	}

	// cópia para não alterar o slice de quem chamou
	v.Atividades = append([]ReceitaCNAE(nil), v.Atividades...)
	seen := make(map[string]bool, len(v.Atividades))
	soma := decimal.Zero
	for i := range v.Atividades {
		a := &v.Atividades[i]
		a.CNAE = utils.SanitizeCNAE(a.CNAE)
		if !utils.ValidateCNAE(a.CNAE) {
			return invalid("atividades.cnae", "invalid cnae %q", a.CNAE)
		}
		if seen[a.CNAE] {
			return invalid("atividades.cnae", "duplicated cnae %s", a.CNAE)
		}
		seen[a.CNAE] = true
		if err := naoNegativo("atividades.receita_interna", a.Interna); err != nil {
			return err
		}
		if err := naoNegativo("atividades.receita_externa", a.Externa); err != nil {
			return err
		}
		soma = soma.Add(a.Total())
	}
	if soma.Sub(v.FaturamentoMensal).Abs().GreaterThan(toleranciaSoma) {
		return invalid("faturamento_mensal", "activity revenues sum to %s, expected %s",
			soma.StringFixed(2), v.FaturamentoMensal.StringFixed(2))
	}

	for _, s := range v.Socios {
		if err := naoNegativo("socios.pro_labore", s.ProLabore); err != nil {
			return err
		}
	}
	return nil
}

func (in EmployeeCostInput) Validate() error {
	if !in.Regime.Valid() {
		return &ValidationError{Field: "regime", Reason: "must be simples, presumido or mei", Err: ErrUnknownRegime}
	}
	if !in.SalarioBase.IsPositive() {
		return invalid("salario_base", "must be > 0")
	}
	beneficios := []struct {
		field string
		val   decimal.Decimal
	}{
		{"vale_transporte", in.ValeTransporte},
		{"vale_refeicao", in.ValeRefeicao},
		{"plano_saude", in.PlanoSaude},
		{"outros_beneficios", in.OutrosBeneficios},
	}
	for _, b := range beneficios {
		if err := naoNegativo(b.field, b.val); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReformYear aceita apenas anos do calendário de transição (2026..2033).
func ValidateReformYear(ano int) error {
	if ano < PrimeiroAnoReforma || ano > UltimoAnoReforma {
		return &ValidationError{
			Field:  "ano",
			Reason: "must be between 2026 and 2033",
			Err:    ErrYearOutOfRange,
		}
	}
	return nil
}
