package calc

import (
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/shopspring/decimal"
)

// FatorRRatio calcula FP12 / RBT12. Empresa nova (RBT12 = 0) usa RBT12 = 1,
// o que leva qualquer folha informada ao Anexo III.
func FatorRRatio(fp12, rbt12 decimal.Decimal) decimal.Decimal {
	if rbt12.IsZero() {
		rbt12 = um
	}
	return fp12.Div(rbt12)
}

// ClassifyFatorR decide entre Anexo III (razão >= mínimo, limite inclusivo) e Anexo V.
func ClassifyFatorR(fp12, rbt12, minimo decimal.Decimal) models.FatorR {
	r := FatorRRatio(fp12, rbt12)
	anexo := models.AnexoV
	if r.GreaterThanOrEqual(minimo) {
		anexo = models.AnexoIII
	}
	return models.FatorR{Razao: round6(r), Anexo: anexo}
}
