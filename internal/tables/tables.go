package tables

import (
	"fmt"
	"maps"
	"sort"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
	"github.com/shopspring/decimal"
)

// BracketRow é uma faixa [De, Ate) da tabela progressiva. A última faixa é Ilimitada.
type BracketRow struct {
	De        decimal.Decimal `json:"de"`
	Ate       decimal.Decimal `json:"ate"`
	Ilimitada bool            `json:"ilimitada,omitempty"`
	Nominal   decimal.Decimal `json:"aliquota"`
	Deducao   decimal.Decimal `json:"deducao"`
}

func (b BracketRow) Contains(v decimal.Decimal) bool {
	if v.LessThan(b.De) {
		return false
	}
	return b.Ilimitada || v.LessThan(b.Ate)
}

type AnnexTable struct {
	Anexo  models.Anexo `json:"anexo"`
	Faixas []BracketRow `json:"faixas"`
}

func (a AnnexTable) MaxNominal() decimal.Decimal {
	maior := decimal.Zero
	for _, f := range a.Faixas {
		maior = decimal.Max(maior, f.Nominal)
	}
	return maior
}

// Activity é a classificação de um CNAE. Anexo vazio quando FatorR decide entre III e V.
type Activity struct {
	CNAE      string               `json:"cnae"`
	Descricao string               `json:"descricao"`
	Tipo      models.TipoAtividade `json:"tipo"`
	Anexo     models.Anexo         `json:"anexo,omitempty"`
	FatorR    bool                 `json:"fator_r"`
	MEI       bool                 `json:"mei"`
}

type SimplesParams struct {
	Teto         decimal.Decimal `json:"teto"`
	Sublimite    decimal.Decimal `json:"sublimite"`
	FatorRMinimo decimal.Decimal `json:"fator_r_minimo"`
}

type ReformaParams struct {
	CBS decimal.Decimal `json:"cbs"`
	IBS decimal.Decimal `json:"ibs"`
}

// Aliquota é a alíquota cheia do IVA dual (CBS + IBS).
func (r ReformaParams) Aliquota() decimal.Decimal { return r.CBS.Add(r.IBS) }

type FolhaParams struct {
	CPP             decimal.Decimal `json:"cpp"`
	RAT             decimal.Decimal `json:"rat"`
	SalarioEducacao decimal.Decimal `json:"salario_educacao"`
	SistemaS        decimal.Decimal `json:"sistema_s"`
	FGTS            decimal.Decimal `json:"fgts"`
	MultaFGTS       decimal.Decimal `json:"multa_fgts"`
	MEICPP          decimal.Decimal `json:"mei_cpp"`
	DescontoVT      decimal.Decimal `json:"desconto_vt"`
	INSSSocio       decimal.Decimal `json:"inss_socio"`
	TetoINSS        decimal.Decimal `json:"teto_inss"`
}

type MEIParams struct {
	LimiteAnual       decimal.Decimal `json:"limite_anual"`
	SalarioMinimo     decimal.Decimal `json:"salario_minimo"`
	INSS              decimal.Decimal `json:"inss"`
	ICMS              decimal.Decimal `json:"icms"`
	ISS               decimal.Decimal `json:"iss"`
	ToleranciaExcesso decimal.Decimal `json:"tolerancia_excesso"`
}

type Presuncao struct {
	IRPJ decimal.Decimal `json:"irpj"`
	CSLL decimal.Decimal `json:"csll"`
}

type PresumidoParams struct {
	PIS             decimal.Decimal `json:"pis"`
	COFINS          decimal.Decimal `json:"cofins"`
	IRPJ            decimal.Decimal `json:"irpj"`
	AdicionalIRPJ   decimal.Decimal `json:"adicional_irpj"`
	LimiteAdicional decimal.Decimal `json:"limite_adicional"`
	CSLL            decimal.Decimal `json:"csll"`

	Presuncoes map[models.TipoAtividade]Presuncao `json:"presuncao"`
}

func (p PresumidoParams) Presuncao(tipo models.TipoAtividade) (Presuncao, error) {
	pr, ok := p.Presuncoes[tipo]
	if !ok {
		return Presuncao{}, fmt.Errorf("presumption for activity kind %q: %w", tipo, ErrInvalidTables)
	}
	return pr, nil
}

type issTable struct {
	padrao  decimal.Decimal
	cidades map[string]decimal.Decimal
}

// Tables é o conjunto imutável de tabelas de referência. Só é construído por Build
// e nunca é alterado depois, então pode ser compartilhado entre goroutines.
type Tables struct {
	versao   string
	vigencia string

	anexos    map[models.Anexo]AnnexTable
	transicao map[int]decimal.Decimal
	anos      []int
	cnaes     map[string]Activity
	iss       issTable

	Simples   SimplesParams
	Reforma   ReformaParams
	Folha     FolhaParams
	MEI       MEIParams
	Presumido PresumidoParams
}

func (t *Tables) Version() string { return t.versao }

// Annex devolve a tabela progressiva do anexo; anexo ausente é erro, nunca um padrão.
func (t *Tables) Annex(a models.Anexo) (AnnexTable, error) {
	table, ok := t.anexos[a]
	if !ok {
		return AnnexTable{}, fmt.Errorf("annex %q: %w", a, models.ErrUnknownAnnex)
	}
	return table, nil
}

// Coefficient devolve a fração do IVA dual em vigor no ano.
// Antes do primeiro ano vale o primeiro coeficiente (0) e depois do último vale o último (1).
// Um ano ausente dentro do intervalo é erro.
func (t *Tables) Coefficient(ano int) (decimal.Decimal, error) {
	first, last := t.anos[0], t.anos[len(t.anos)-1]
	switch {
	case ano < first:
		return t.transicao[first], nil
	case ano > last:
		return t.transicao[last], nil
	}
	c, ok := t.transicao[ano]
	if !ok {
		return decimal.Zero, fmt.Errorf("year %d: %w", ano, models.ErrMissingYear)
	}
	return c, nil
}

// Years lista os anos da tabela de transição em ordem crescente.
func (t *Tables) Years() []int {
	return append([]int(nil), t.anos...)
}

// Activity classifica um CNAE (já higienizado ou não).
func (t *Tables) Activity(cnae string) (Activity, error) {
	code := utils.SanitizeCNAE(cnae)
	act, ok := t.cnaes[code]
	if !ok {
		return Activity{}, &models.ClassificationError{CNAE: code}
	}
	return act, nil
}

// ISSRate devolve a alíquota de ISS da cidade ou a alíquota padrão.
func (t *Tables) ISSRate(cidade string) decimal.Decimal {
	if r, ok := t.iss.cidades[utils.NormalizeCity(cidade)]; ok {
		return r
	}
	return t.iss.padrao
}

type TransitionEntry struct {
	Ano         int             `json:"ano"`
	Coeficiente decimal.Decimal `json:"coeficiente"`
}

// Summary é a visão publicada em GET /api/tabelas.
type Summary struct {
	Versao    string            `json:"versao"`
	Vigencia  string            `json:"vigencia"`
	Anexos    []AnnexTable      `json:"anexos"`
	Transicao []TransitionEntry `json:"transicao"`
	CNAEs     []Activity        `json:"cnaes"`
	Simples   SimplesParams     `json:"simples"`
	Reforma   ReformaParams     `json:"reforma"`
	Folha     FolhaParams       `json:"folha"`
	MEI       MEIParams         `json:"mei"`
	ISSPadrao decimal.Decimal   `json:"iss_padrao"`
	Presumido PresumidoParams   `json:"presumido"`
}

func (t *Tables) Summary() Summary {
	s := Summary{
		Versao:    t.versao,
		Vigencia:  t.vigencia,
		Simples:   t.Simples,
		Reforma:   t.Reforma,
		Folha:     t.Folha,
		MEI:       t.MEI,
		ISSPadrao: t.iss.padrao,
		Presumido: t.Presumido,
	}
	s.Presumido.Presuncoes = maps.Clone(t.Presumido.Presuncoes)
	for _, a := range models.Anexos {
		s.Anexos = append(s.Anexos, t.anexos[a])
	}
	for _, ano := range t.anos {
		s.Transicao = append(s.Transicao, TransitionEntry{Ano: ano, Coeficiente: t.transicao[ano]})
	}
	for _, act := range t.cnaes {
		s.CNAEs = append(s.CNAEs, act)
	}
	sort.Slice(s.CNAEs, func(i, j int) bool { return s.CNAEs[i].CNAE < s.CNAEs[j].CNAE })
	return s
}
