package handlers

import (
	"github.com/Werneck0live/simulador-tributario/internal/fx"
	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/shopspring/decimal"
)

// CambioDTO acompanha a simulação quando há receita de exportação.
type CambioDTO struct {
	fx.Quote
	ReceitaExternaBRL decimal.Decimal `json:"receita_externa_brl"`
	ReceitaExternaUSD decimal.Decimal `json:"receita_externa_usd"`
}

type LegacyResponse struct {
	models.CalculationResults
	Cambio *CambioDTO `json:"cambio,omitempty"`
}

type HealthDTO struct {
	Status        string `json:"status"`
	VersaoTabelas string `json:"versao_tabelas"`
}
