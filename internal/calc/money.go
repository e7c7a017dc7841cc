package calc

import "github.com/shopspring/decimal"

var (
	um   = decimal.NewFromInt(1)
	tres = decimal.NewFromInt(3)
	doze = decimal.NewFromInt(12)
)

// valores monetários saem com 2 casas; alíquotas com 6
func round2(v decimal.Decimal) decimal.Decimal { return v.Round(2) }
func round6(v decimal.Decimal) decimal.Decimal { return v.Round(6) }

// ratio divide sem risco de divisão por zero: denominador zero dá zero.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

func sum(vs ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}
