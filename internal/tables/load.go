package tables

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

//go:embed tabelas.yaml
var embedded []byte

var ErrInvalidTables = errors.New("invalid reference tables")

// Document é a forma serializada das tabelas: o YAML embutido e o documento guardado no Mongo.
// Os números ficam em float64 aqui e viram decimal em Build.
type Document struct {
	Versao    string         `yaml:"versao" bson:"versao" json:"versao"`
	Vigencia  string         `yaml:"vigencia" bson:"vigencia" json:"vigencia"`
	CriadoEm  time.Time      `yaml:"-" bson:"criado_em" json:"criado_em"`
	Simples   SimplesDoc     `yaml:"simples" bson:"simples" json:"simples"`
	Transicao []TransicaoDoc `yaml:"transicao" bson:"transicao" json:"transicao"`
	Reforma   ReformaDoc     `yaml:"reforma" bson:"reforma" json:"reforma"`
	Folha     FolhaDoc       `yaml:"folha" bson:"folha" json:"folha"`
	MEI       MEIDoc         `yaml:"mei" bson:"mei" json:"mei"`
	Presumido PresumidoDoc   `yaml:"presumido" bson:"presumido" json:"presumido"`
	ISS       ISSDoc         `yaml:"iss" bson:"iss" json:"iss"`
	CNAEs     []CNAEDoc      `yaml:"cnaes" bson:"cnaes" json:"cnaes"`
}

type FaixaDoc struct {
	De       float64  `yaml:"de" bson:"de" json:"de"`
	Ate      *float64 `yaml:"ate" bson:"ate,omitempty" json:"ate,omitempty"`
	Aliquota float64  `yaml:"aliquota" bson:"aliquota" json:"aliquota"`
	Deducao  float64  `yaml:"deducao" bson:"deducao" json:"deducao"`
}

type SimplesDoc struct {
	Teto         float64               `yaml:"teto" bson:"teto" json:"teto"`
	Sublimite    float64               `yaml:"sublimite" bson:"sublimite" json:"sublimite"`
	FatorRMinimo float64               `yaml:"fator_r_minimo" bson:"fator_r_minimo" json:"fator_r_minimo"`
	Anexos       map[string][]FaixaDoc `yaml:"anexos" bson:"anexos" json:"anexos"`
}

type TransicaoDoc struct {
	Ano         int     `yaml:"ano" bson:"ano" json:"ano"`
	Coeficiente float64 `yaml:"coeficiente" bson:"coeficiente" json:"coeficiente"`
}

type ReformaDoc struct {
	CBS float64 `yaml:"cbs" bson:"cbs" json:"cbs"`
	IBS float64 `yaml:"ibs" bson:"ibs" json:"ibs"`
}

type FolhaDoc struct {
	CPP             float64 `yaml:"cpp" bson:"cpp" json:"cpp"`
	RAT             float64 `yaml:"rat" bson:"rat" json:"rat"`
	SalarioEducacao float64 `yaml:"salario_educacao" bson:"salario_educacao" json:"salario_educacao"`
	SistemaS        float64 `yaml:"sistema_s" bson:"sistema_s" json:"sistema_s"`
	FGTS            float64 `yaml:"fgts" bson:"fgts" json:"fgts"`
	MultaFGTS       float64 `yaml:"multa_fgts" bson:"multa_fgts" json:"multa_fgts"`
	MEICPP          float64 `yaml:"mei_cpp" bson:"mei_cpp" json:"mei_cpp"`
	DescontoVT      float64 `yaml:"desconto_vt" bson:"desconto_vt" json:"desconto_vt"`
	INSSSocio       float64 `yaml:"inss_socio" bson:"inss_socio" json:"inss_socio"`
	TetoINSS        float64 `yaml:"teto_inss" bson:"teto_inss" json:"teto_inss"`
}

type MEIDoc struct {
	LimiteAnual       float64 `yaml:"limite_anual" bson:"limite_anual" json:"limite_anual"`
	SalarioMinimo     float64 `yaml:"salario_minimo" bson:"salario_minimo" json:"salario_minimo"`
	INSS              float64 `yaml:"inss" bson:"inss" json:"inss"`
	ICMS              float64 `yaml:"icms" bson:"icms" json:"icms"`
	ISS               float64 `yaml:"iss" bson:"iss" json:"iss"`
	ToleranciaExcesso float64 `yaml:"tolerancia_excesso" bson:"tolerancia_excesso" json:"tolerancia_excesso"`
}

type PresuncaoDoc struct {
	IRPJ float64 `yaml:"irpj" bson:"irpj" json:"irpj"`
	CSLL float64 `yaml:"csll" bson:"csll" json:"csll"`
}

type PresumidoDoc struct {
	PIS             float64                 `yaml:"pis" bson:"pis" json:"pis"`
	COFINS          float64                 `yaml:"cofins" bson:"cofins" json:"cofins"`
	IRPJ            float64                 `yaml:"irpj" bson:"irpj" json:"irpj"`
	AdicionalIRPJ   float64                 `yaml:"adicional_irpj" bson:"adicional_irpj" json:"adicional_irpj"`
	LimiteAdicional float64                 `yaml:"limite_adicional" bson:"limite_adicional" json:"limite_adicional"`
	CSLL            float64                 `yaml:"csll" bson:"csll" json:"csll"`
	Presuncao       map[string]PresuncaoDoc `yaml:"presuncao" bson:"presuncao" json:"presuncao"`
}

type ISSDoc struct {
	Padrao  float64            `yaml:"padrao" bson:"padrao" json:"padrao"`
	Cidades map[string]float64 `yaml:"cidades" bson:"cidades" json:"cidades"`
}

type CNAEDoc struct {
	Codigo    string `yaml:"codigo" bson:"codigo" json:"codigo"`
	Descricao string `yaml:"descricao" bson:"descricao" json:"descricao"`
	Tipo      string `yaml:"tipo" bson:"tipo" json:"tipo"`
	Anexo     string `yaml:"anexo" bson:"anexo,omitempty" json:"anexo,omitempty"`
	FatorR    bool   `yaml:"fator_r" bson:"fator_r" json:"fator_r"`
	MEI       bool   `yaml:"mei" bson:"mei" json:"mei"`
}

// Parse lê um documento YAML sem validar o conteúdo.
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse tables: %w", err)
	}
	return doc, nil
}

// EmbeddedDocument devolve o documento compilado no binário.
func EmbeddedDocument() (Document, error) {
	return Parse(embedded)
}

// Embedded monta as tabelas a partir do YAML embutido.
func Embedded() (*Tables, error) {
	doc, err := EmbeddedDocument()
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default devolve as tabelas embutidas, montadas uma única vez por processo.
// O YAML embutido é coberto por teste, então uma falha aqui é bug de build.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Embedded()
		if err != nil {
			panic(err)
		}
		defaultTables = t
	})
	return defaultTables
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTables, fmt.Sprintf(format, args...))
}

// Build valida o documento e converte para a forma imutável usada pelo motor.
func Build(doc Document) (*Tables, error) {
	if doc.Versao == "" {
		return nil, invalidf("versao is required")
	}
	t := &Tables{
		versao:    doc.Versao,
		vigencia:  doc.Vigencia,
		anexos:    make(map[models.Anexo]AnnexTable, len(doc.Simples.Anexos)),
		transicao: make(map[int]decimal.Decimal, len(doc.Transicao)),
		cnaes:     make(map[string]Activity, len(doc.CNAEs)),
	}

	for _, a := range models.Anexos {
		rows, ok := doc.Simples.Anexos[string(a)]
		if !ok {
			return nil, invalidf("annex %s missing", a)
		}
		table, err := buildAnnex(a, rows)
		if err != nil {
			return nil, err
		}
		t.anexos[a] = table
	}
	t.Simples = SimplesParams{
		Teto:         dec(doc.Simples.Teto),
		Sublimite:    dec(doc.Simples.Sublimite),
		FatorRMinimo: dec(doc.Simples.FatorRMinimo),
	}

	if err := t.buildTransition(doc.Transicao); err != nil {
		return nil, err
	}

	t.Reforma = ReformaParams{CBS: dec(doc.Reforma.CBS), IBS: dec(doc.Reforma.IBS)}
	f := doc.Folha
	t.Folha = FolhaParams{
		CPP:             dec(f.CPP),
		RAT:             dec(f.RAT),
		SalarioEducacao: dec(f.SalarioEducacao),
		SistemaS:        dec(f.SistemaS),
		FGTS:            dec(f.FGTS),
		MultaFGTS:       dec(f.MultaFGTS),
		MEICPP:          dec(f.MEICPP),
		DescontoVT:      dec(f.DescontoVT),
		INSSSocio:       dec(f.INSSSocio),
		TetoINSS:        dec(f.TetoINSS),
	}
	m := doc.MEI
	t.MEI = MEIParams{
		LimiteAnual:       dec(m.LimiteAnual),
		SalarioMinimo:     dec(m.SalarioMinimo),
		INSS:              dec(m.INSS),
		ICMS:              dec(m.ICMS),
		ISS:               dec(m.ISS),
		ToleranciaExcesso: dec(m.ToleranciaExcesso),
	}

	p := doc.Presumido
	t.Presumido = PresumidoParams{
		PIS:             dec(p.PIS),
		COFINS:          dec(p.COFINS),
		IRPJ:            dec(p.IRPJ),
		AdicionalIRPJ:   dec(p.AdicionalIRPJ),
		LimiteAdicional: dec(p.LimiteAdicional),
		CSLL:            dec(p.CSLL),
		Presuncoes:      make(map[models.TipoAtividade]Presuncao, len(p.Presuncao)),
	}
	for _, tipo := range []models.TipoAtividade{models.TipoComercio, models.TipoIndustria, models.TipoServico} {
		pr, ok := p.Presuncao[string(tipo)]
		if !ok {
			return nil, invalidf("presumption for %s missing", tipo)
		}
		t.Presumido.Presuncoes[tipo] = Presuncao{IRPJ: dec(pr.IRPJ), CSLL: dec(pr.CSLL)}
	}

	t.iss = issTable{padrao: dec(doc.ISS.Padrao), cidades: make(map[string]decimal.Decimal, len(doc.ISS.Cidades))}
	for city, rate := range doc.ISS.Cidades {
		t.iss.cidades[utils.NormalizeCity(city)] = dec(rate)
	}

	for _, c := range doc.CNAEs {
		act, err := buildActivity(c)
		if err != nil {
			return nil, err
		}
		if _, dup := t.cnaes[act.CNAE]; dup {
			return nil, invalidf("cnae %s duplicated", act.CNAE)
		}
		t.cnaes[act.CNAE] = act
	}
	return t, nil
}

// buildAnnex exige faixas em ordem crescente, contíguas, começando em zero e
// só a última sem limite superior.
func buildAnnex(a models.Anexo, rows []FaixaDoc) (AnnexTable, error) {
	if len(rows) == 0 {
		return AnnexTable{}, invalidf("annex %s has no brackets", a)
	}
	out := AnnexTable{Anexo: a, Faixas: make([]BracketRow, 0, len(rows))}
	for i, r := range rows {
		row := BracketRow{De: dec(r.De), Nominal: dec(r.Aliquota), Deducao: dec(r.Deducao)}
		last := i == len(rows)-1
		switch {
		case r.Ate == nil && !last:
			return AnnexTable{}, invalidf("annex %s bracket %d: only the last bracket may be unbounded", a, i+1)
		case r.Ate == nil:
			row.Ilimitada = true
		default:
			row.Ate = dec(*r.Ate)
			if !row.Ate.GreaterThan(row.De) {
				return AnnexTable{}, invalidf("annex %s bracket %d: upper bound must exceed lower bound", a, i+1)
			}
		}
		if i == 0 && !row.De.IsZero() {
			return AnnexTable{}, invalidf("annex %s: first bracket must start at 0", a)
		}
		if i > 0 && !row.De.Equal(out.Faixas[i-1].Ate) {
			return AnnexTable{}, invalidf("annex %s bracket %d: gap or overlap with previous bracket", a, i+1)
		}
		if row.Nominal.IsNegative() || row.Deducao.IsNegative() {
			return AnnexTable{}, invalidf("annex %s bracket %d: negative rate or deduction", a, i+1)
		}
		out.Faixas = append(out.Faixas, row)
	}
	return out, nil
}

// buildTransition exige coeficientes em [0,1], não decrescentes, primeiro 0 e último 1.
func (t *Tables) buildTransition(rows []TransicaoDoc) error {
	if len(rows) == 0 {
		return invalidf("transition table is empty")
	}
	sorted := append([]TransicaoDoc(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ano < sorted[j].Ano })

	prev := decimal.Zero
	for i, r := range sorted {
		c := dec(r.Coeficiente)
		if _, dup := t.transicao[r.Ano]; dup {
			return invalidf("transition year %d duplicated", r.Ano)
		}
		if c.IsNegative() || c.GreaterThan(decimal.NewFromInt(1)) {
			return invalidf("transition year %d: coefficient outside [0,1]", r.Ano)
		}
		if i > 0 && c.LessThan(prev) {
			return invalidf("transition year %d: coefficient decreases", r.Ano)
		}
		t.transicao[r.Ano] = c
		t.anos = append(t.anos, r.Ano)
		prev = c
	}
	if !t.transicao[sorted[0].Ano].IsZero() {
		return invalidf("transition must start at 0")
	}
	if !prev.Equal(decimal.NewFromInt(1)) {
		return invalidf("transition must end at 1")
	}
	return nil
}

func buildActivity(c CNAEDoc) (Activity, error) {
	code := utils.SanitizeCNAE(c.Codigo)
	if !utils.ValidateCNAE(code) {
		return Activity{}, invalidf("cnae %q is not a valid code", c.Codigo)
	}
	act := Activity{
		CNAE:      code,
		Descricao: c.Descricao,
		Tipo:      models.TipoAtividade(c.Tipo),
		Anexo:     models.Anexo(c.Anexo),
		FatorR:    c.FatorR,
		MEI:       c.MEI,
	}
	switch act.Tipo {
	case models.TipoComercio, models.TipoIndustria, models.TipoServico:
	default:
		return Activity{}, invalidf("cnae %s: unknown kind %q", code, c.Tipo)
	}
	if act.FatorR == (act.Anexo != "") {
		return Activity{}, invalidf("cnae %s: set either anexo or fator_r", code)
	}
	if act.Anexo != "" && !act.Anexo.Valid() {
		return Activity{}, invalidf("cnae %s: unknown annex %q", code, c.Anexo)
	}
	return act, nil
}
