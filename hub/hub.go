package hub

import (
	"encoding/json"
	"sync"

	"github.com/hupe1980/drawboard/logging"
)

// hubOp is one unit of work for the hub loop: an attach (client set) or a
// broadcast (frame set). Both travel the same channel, which is what keeps
// snapshot seeding and live broadcasts in a single total order.
type hubOp struct {
	client *Client
	seed   [][]byte
	frame  []byte
}

// Options configure the hub.
type Options struct {
	Logger logging.Logger

	// SendBuffer is the per-viewer outbound queue. A viewer that falls this
	// far behind is disconnected.
	SendBuffer int
}

// Hub manages WebSocket viewers and frame fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	ops        chan hubOp
	unregister chan *Client
	done       chan struct{}

	opts   Options
	logger logging.Logger
}

// New creates a hub. Run must be started before viewers attach.
func New(optFns ...func(o *Options)) *Hub {
	opts := Options{
		Logger:     logging.NoOpLogger{},
		SendBuffer: 256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		ops:        make(chan hubOp, 256),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		opts:       opts,
		logger:     opts.Logger,
	}
}

// Run processes attach, broadcast and detach operations until Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case client := <-h.unregister:
			h.drop(client)
		case op := <-h.ops:
			if op.client != nil {
				h.attach(op.client, op.seed)
				continue
			}
			h.fanOut(op.frame)
		}
	}
}

// Stop shuts the hub down. Pending and future operations are discarded.
func (h *Hub) Stop() {
	close(h.done)
}

// Attach registers a viewer and queues its seed frames ahead of any later
// broadcast. Callers marshal the seed while holding the same lock that
// orders their broadcasts, which is what makes delivery exactly-once.
func (h *Hub) Attach(client *Client, seed ...[]byte) {
	select {
	case h.ops <- hubOp{client: client, seed: seed}:
	case <-h.done:
	}
}

// Detach unregisters a viewer and shuts its pumps down.
func (h *Hub) Detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast marshals v and queues it for every attached viewer.
func (h *Hub) Broadcast(v interface{}) {
	frame, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("broadcast marshal failed", "error", err)
		return
	}
	select {
	case h.ops <- hubOp{frame: frame}:
	case <-h.done:
	}
}

// ClientCount returns the number of attached viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) attach(client *Client, seed [][]byte) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	for _, frame := range seed {
		if !client.trySend(frame) {
			h.drop(client)
			return
		}
	}
	h.logger.Debug("viewer attached", "viewer_id", client.id, "total", total)
}

func (h *Hub) fanOut(frame []byte) {
	h.mu.RLock()
	var stalled []*Client
	for client := range h.clients {
		if !client.trySend(frame) {
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()
	// A full send queue means the viewer stopped reading; reconnecting with
	// a fresh snapshot beats a silent hole in its canvas.
	for _, client := range stalled {
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	total := len(h.clients)
	h.mu.Unlock()
	client.close()
	h.logger.Debug("viewer detached", "viewer_id", client.id, "total", total)
}
