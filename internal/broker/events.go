package broker

import (
	"time"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// Kind classifica o evento; o feed WebSocket filtra por ele.
type Kind string

const (
	KindLegado      Kind = "legado"
	KindReforma     Kind = "reforma"
	KindProjecao    Kind = "projecao"
	KindFuncionario Kind = "funcionario"
)

// HeaderKind é o header AMQP com o Kind do evento.
const HeaderKind = "tipo"

// Event é o resumo publicado a cada simulação. Não carrega o formulário de entrada.
type Event struct {
	ID            string                     `json:"id"`
	Tipo          Kind                       `json:"tipo"`
	OcorridoEm    time.Time                  `json:"ocorrido_em"`
	VersaoTabelas string                     `json:"versao_tabelas,omitempty"`
	Ano           int                        `json:"ano,omitempty"`
	MelhorRegime  models.Regime              `json:"melhor_regime,omitempty"`
	Custos        map[string]decimal.Decimal `json:"custos,omitempty"`
}

func NewEvent(kind Kind, versao string) Event {
	return Event{
		ID:            uuid.NewString(),
		Tipo:          kind,
		OcorridoEm:    time.Now().UTC(),
		VersaoTabelas: versao,
		Custos:        map[string]decimal.Decimal{},
	}
}

func (e Event) Headers() amqp.Table {
	return amqp.Table{HeaderKind: string(e.Tipo), "evento_id": e.ID}
}

func LegacyEvent(res models.CalculationResults) Event {
	ev := NewEvent(KindLegado, res.VersaoTabelas)
	ev.MelhorRegime = res.MelhorRegime
	for _, r := range res.Regimes {
		ev.Custos[string(r.Regime)] = r.CustoTotal
	}
	return ev
}

func ReformEvent(res models.CalculationResults2026) Event {
	ev := NewEvent(KindReforma, res.VersaoTabelas)
	ev.Ano = res.Ano
	ev.MelhorRegime = res.MelhorRegime
	for _, r := range res.Regimes {
		ev.Custos[string(r.Regime)] = r.CustoTotal
	}
	return ev
}

// ProjectionEvent resume a projeção pelo último ano da série.
func ProjectionEvent(p models.ReformProjection) Event {
	ev := NewEvent(KindProjecao, p.VersaoTabelas)
	if len(p.Anos) == 0 {
		return ev
	}
	last := p.Anos[len(p.Anos)-1]
	ev.Ano = last.Ano
	ev.MelhorRegime = last.MelhorRegime
	for _, r := range last.Regimes {
		ev.Custos[string(r.Regime)] = r.CustoTotal
	}
	return ev
}

func EmployeeEvent(res models.EmployeeCostResult, versao string) Event {
	ev := NewEvent(KindFuncionario, versao)
	ev.Custos[string(res.Regime)] = res.CustoTotal
	return ev
}
