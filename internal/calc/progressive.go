package calc

import (
	"errors"
	"fmt"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"github.com/shopspring/decimal"
)

var errNoBracket = errors.New("no bracket contains rbt12")

// ProgressiveRate localiza a faixa [De, Ate) do RBT12 e calcula
// efetiva = (RBT12 × nominal − dedução) / RBT12, nunca negativa.
// RBT12 = 0 (empresa nova) usa a alíquota nominal da primeira faixa sem dedução.
func ProgressiveRate(rbt12 decimal.Decimal, table tables.AnnexTable) (models.Aliquota, error) {
	if len(table.Faixas) == 0 {
		return models.Aliquota{}, fmt.Errorf("annex %q: %w", table.Anexo, errNoBracket)
	}
	if rbt12.IsZero() {
		first := table.Faixas[0]
		return models.Aliquota{Faixa: 1, Nominal: first.Nominal, Deducao: decimal.Zero, Efetiva: first.Nominal}, nil
	}
	for i, row := range table.Faixas {
		if !row.Contains(rbt12) {
			continue
		}
		efetiva := rbt12.Mul(row.Nominal).Sub(row.Deducao).Div(rbt12)
		if efetiva.IsNegative() {
			efetiva = decimal.Zero
		}
		return models.Aliquota{
			Faixa:   i + 1,
			Nominal: row.Nominal,
			Deducao: row.Deducao,
			Efetiva: round6(efetiva),
		}, nil
	}
	return models.Aliquota{}, fmt.Errorf("annex %q, rbt12 %s: %w", table.Anexo, rbt12.String(), errNoBracket)
}
