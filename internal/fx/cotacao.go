// Package fx busca a cotação USD/BRL usada para exibir a receita de exportação em dólar.
// Falha na consulta nunca interrompe uma simulação: cai para o último valor em cache
// ou para a cotação padrão, com aviso.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const Par = "USD-BRL"

const (
	FonteAPI    = "api"
	FonteCache  = "cache"
	FontePadrao = "padrao"
)

var ErrBadQuote = errors.New("invalid quote payload")

type Quote struct {
	Par          string          `json:"par"`
	Cotacao      decimal.Decimal `json:"cotacao"`
	AtualizadoEm time.Time       `json:"atualizado_em"`
	Fonte        string          `json:"fonte"`
	Aviso        string          `json:"aviso,omitempty"`
}

type Config struct {
	URL         string
	TTL         time.Duration
	Timeout     time.Duration
	DefaultRate decimal.Decimal
	Retries     uint64
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
	now  func() time.Time

	mu   sync.RWMutex
	last *Quote
	sf   singleflight.Group
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With("cmp", "fx"),
		now:  time.Now,
	}
}

// USDBRL devolve a cotação atual. Dentro do TTL usa o cache; chamadas concorrentes
// com cache vencido compartilham uma única consulta. A consulta roda desacoplada do
// ctx de quem a disparou: cada chamador só deixa de esperar pelo próprio ctx.
func (c *Client) USDBRL(ctx context.Context) Quote {
	if q, ok := c.fresh(); ok {
		return q
	}

	ch := c.sf.DoChan(Par, func() (any, error) {
		if q, ok := c.fresh(); ok {
			return q, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchBudget())
		defer cancel()
		q, err := c.fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.last = &q
		c.mu.Unlock()
		return q, nil
	})
	select {
	case r := <-ch:
		if r.Err == nil {
			return r.Val.(Quote)
		}
		return c.fallback(r.Err)
	case <-ctx.Done():
		return c.fallback(ctx.Err())
	}
}

// fetchBudget limita a consulta compartilhada: timeout por tentativa × tentativas.
func (c *Client) fetchBudget() time.Duration {
	per := c.cfg.Timeout
	if per <= 0 {
		per = 10 * time.Second
	}
	return per * time.Duration(c.cfg.Retries+1)
}

func (c *Client) fresh() (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil || c.now().Sub(c.last.AtualizadoEm) >= c.cfg.TTL {
		return Quote{}, false
	}
	q := *c.last
	q.Fonte = FonteCache
	return q, true
}

func (c *Client) fallback(err error) Quote {
	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()

	if last != nil {
		c.log.Warn("fx_fallback", "source", FonteCache, "err", err)
		q := *last
		q.Fonte = FonteCache
		q.Aviso = "cotação indisponível; usando o último valor obtido"
		return q
	}
	c.log.Warn("fx_fallback", "source", FontePadrao, "err", err)
	return Quote{
		Par:          Par,
		Cotacao:      c.cfg.DefaultRate,
		AtualizadoEm: c.now(),
		Fonte:        FontePadrao,
		Aviso:        "cotação indisponível; usando valor padrão",
	}
}

// resposta da AwesomeAPI: {"USDBRL": {"bid": "5.4321", ...}}
type awesomeQuote struct {
	Bid string `json:"bid"`
}

func (c *Client) fetch(ctx context.Context) (Quote, error) {
	var q Quote
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("fx api status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fx api status %d", resp.StatusCode))
		}

		var body map[string]awesomeQuote
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrBadQuote, err))
		}
		bid, err := decimal.NewFromString(body["USDBRL"].Bid)
		if err != nil || !bid.IsPositive() {
			return backoff.Permanent(fmt.Errorf("%w: bid %q", ErrBadQuote, body["USDBRL"].Bid))
		}
		q = Quote{Par: Par, Cotacao: bid, AtualizadoEm: c.now(), Fonte: FonteAPI}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.Retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return Quote{}, err
	}
	c.log.Debug("fx_fetched", "bid", q.Cotacao.String())
	return q, nil
}

// ToUSD converte um valor em reais pela cotação. Cotação zero devolve zero.
func (q Quote) ToUSD(brl decimal.Decimal) decimal.Decimal {
	if q.Cotacao.IsZero() {
		return decimal.Zero
	}
	return brl.Div(q.Cotacao).Round(2)
}
