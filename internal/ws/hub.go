package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client recebe as mensagens do hub em Send. Tipos vazio significa "todos os tipos".
type Client struct {
	ID    string
	Send  chan []byte
	Tipos map[string]bool
}

// Wants diz se o cliente assinou o tipo. Mensagem sem tipo vai para todos.
func (c *Client) Wants(kind string) bool {
	return kind == "" || len(c.Tipos) == 0 || c.Tipos[kind]
}

type message struct {
	kind string
	body []byte
}

type unicastMsg struct {
	id  string
	msg []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	publish chan message    // envio filtrado por tipo
	unicast chan unicastMsg // envio para 1 cliente

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		publish:  make(chan message, 1024),
		unicast:  make(chan unicastMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "total", total)

		case c := <-h.unreg:
			h.drop(c.ID)
			h.log.Info("client_unregistered", "id", c.ID, "total", h.Count())

		case m := <-h.publish:
			var slow []string
			h.mu.RLock()
			for id, c := range h.clients {
				if !c.Wants(m.kind) {
					continue
				}
				select {
				case c.Send <- m.body:
				default:
					// cliente lento -> dropa para não travar o hub
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()
			for _, id := range slow {
				h.drop(id)
				h.log.Warn("send_drop_slow", "id", id)
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			select {
			case c.Send <- u.msg:
			default:
				h.drop(u.id)
				h.log.Warn("send_one_drop_slow", "id", u.id)
			}

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// drop remove o cliente e fecha o Send uma única vez.
func (h *Hub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register atribui o ID antes de entregar ao hub, então c.ID já é válido no retorno.
// Devolve false se o hub já parou; nesse caso o cliente não foi registrado.
func (h *Hub) Register(c *Client) bool {
	if c.ID == "" {
		c.ID = h.newID()
	}
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

// Depois do Stop os envios abaixo viram no-op em vez de bloquear.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Publish(kind string, b []byte) {
	select {
	case h.publish <- message{kind: kind, body: b}:
	case <-h.stopped:
	}
}

func (h *Hub) SendToClient(id string, b []byte) {
	select {
	case h.unicast <- unicastMsg{id: id, msg: b}:
	case <-h.stopped:
	}
}
