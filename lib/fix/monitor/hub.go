// Package monitor is ambient observability, per SPEC_FULL.md §4.7: it
// broadcasts session lifecycle and admin events to connected operational
// dashboards over a sharded WebSocket hub with a per-topic replay
// buffer, and exposes Prometheus counters/gauges. It never mutates
// session state and never gates protocol behavior; fix/session depends
// on it only through the small session.Recorder interface it
// implements, so the dependency runs one way.
//
// The hub's shard/ring-buffer/broadcast shape is grounded on
// _examples/Aidin1998-finalex/internal/infrastructure/ws/hub.go,
// generalized from market-data ticks to FIX session events.
package monitor

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/session"
)

// Event is one broadcast unit: a session lifecycle or admin occurrence,
// sequenced per topic so late-joining clients can replay what they
// missed.
type Event struct {
	Topic     string    `json:"topic"`
	Seq       uint64    `json:"seq"`
	Session   string    `json:"session"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	KindState           = "state"
	KindSent            = "sent"
	KindReceived        = "received"
	KindSequenceGap     = "sequence_gap"
	KindResendRequest   = "resend_request"
	topicSessionEvents  = "session.events"
	defaultReplaySize   = 500
	defaultShardCount   = 8
	clientSendQueueSize = 256
)

// ringBuffer holds the last N events for a topic, per hub.go's ring
// buffer, so a client that subscribes late can catch up.
type ringBuffer struct {
	mu    sync.RWMutex
	buf   []Event
	size  int
	start int
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{buf: make([]Event, size), size: size}
}

func (r *ringBuffer) add(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := (r.start + r.count) % r.size
	if r.count == r.size {
		r.start = (r.start + 1) % r.size
		r.count--
	}
	r.buf[idx] = ev
	r.count++
}

func (r *ringBuffer) getSince(since uint64) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for i := 0; i < r.count; i++ {
		ev := r.buf[(r.start+i)%r.size]
		if ev.Seq > since {
			out = append(out, ev)
		}
	}
	return out
}

// client is one connected dashboard's WebSocket.
type client struct {
	id   uint64
	conn *websocket.Conn
	send chan Event
}

type shard struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// Hub is the sharded WebSocket broadcaster. Its exported surface splits
// in two: session.Recorder (called from the Machine's single goroutine,
// so every method must be fast and non-blocking) and ServeWS/Shutdown
// (called from the embedding program's HTTP layer).
type Hub struct {
	shards     []*shard
	shardCount uint32

	register   chan *client
	unregister chan *client
	broadcast  chan Event

	buf *ringBuffer

	seqMu   sync.Mutex
	nextSeq uint64

	clientIDMu   sync.Mutex
	nextClientID uint64

	metrics *Metrics
	log     *zap.Logger

	upgrader websocket.Upgrader

	done chan struct{}
	wg   sync.WaitGroup
}

// NewHub constructs a Hub with the default shard count and replay
// buffer size and starts its dispatch goroutine.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		shards:     make([]*shard, defaultShardCount),
		shardCount: uint32(defaultShardCount),
		register:   make(chan *client, 64),
		unregister: make(chan *client, 64),
		broadcast:  make(chan Event, 1024),
		buf:        newRingBuffer(defaultReplaySize),
		metrics:    NewMetrics(),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		done: make(chan struct{}),
	}
	for i := range h.shards {
		h.shards[i] = &shard{clients: make(map[*client]struct{})}
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case c := <-h.register:
			h.shardFor(c).addClient(c)
		case c := <-h.unregister:
			h.shardFor(c).removeClient(c)
		case ev := <-h.broadcast:
			h.buf.add(ev)
			h.fanOut(ev)
		}
	}
}

func (h *Hub) fanOut(ev Event) {
	for _, sh := range h.shards {
		sh.mu.RLock()
		for c := range sh.clients {
			select {
			case c.send <- ev:
			default:
				h.log.Warn("monitor: dropping event for slow client")
			}
		}
		sh.mu.RUnlock()
	}
}

func (sh *shard) addClient(c *client) {
	sh.mu.Lock()
	sh.clients[c] = struct{}{}
	sh.mu.Unlock()
}

func (sh *shard) removeClient(c *client) {
	sh.mu.Lock()
	if _, ok := sh.clients[c]; ok {
		delete(sh.clients, c)
		close(c.send)
	}
	sh.mu.Unlock()
}

// shardFor picks a shard by the client's assigned ID; a session hub has
// no natural per-client partition key the way a topic-keyed market-data
// hub does, so a simple incrementing ID hashed with fnv still spreads
// registration contention across shards evenly.
func (h *Hub) shardFor(c *client) *shard {
	hasher := fnv.New64a()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(c.id >> (8 * i))
	}
	hasher.Write(buf[:])
	return h.shards[hasher.Sum64()%uint64(h.shardCount)]
}

func (h *Hub) allocClientID() uint64 {
	h.clientIDMu.Lock()
	defer h.clientIDMu.Unlock()
	h.nextClientID++
	return h.nextClientID
}

func (h *Hub) publish(kind string, id session.Identity, detail string) {
	h.seqMu.Lock()
	seq := h.nextSeq + 1
	h.nextSeq = seq
	h.seqMu.Unlock()

	ev := Event{
		Topic:     topicSessionEvents,
		Seq:       seq,
		Session:   id.Key(),
		Kind:      kind,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("monitor: broadcast channel full, dropping event", zap.String("kind", kind))
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and
// registers it as a dashboard client, replaying every event still held
// in the replay buffer; no client cursor is read, so each new client
// receives the whole buffer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{id: h.allocClientID(), conn: conn, send: make(chan Event, clientSendQueueSize)}
	h.register <- c

	for _, ev := range h.buf.getSince(0) {
		select {
		case c.send <- ev:
		default:
		}
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() { h.unregister <- c; c.conn.Close() }()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() { ticker.Stop(); c.conn.Close() }()
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler returns an http.Handler serving both the WebSocket endpoint
// and the Prometheus /metrics endpoint, per SPEC_FULL.md §6's
// monitor.listen_addr.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.Handle("/metrics", h.metrics.Handler())
	return mux
}

// Shutdown stops the hub's dispatch goroutine and closes every
// connected client.
func (h *Hub) Shutdown() {
	close(h.done)
	h.wg.Wait()
	for _, sh := range h.shards {
		sh.mu.Lock()
		for c := range sh.clients {
			c.conn.Close()
		}
		sh.mu.Unlock()
	}
}

