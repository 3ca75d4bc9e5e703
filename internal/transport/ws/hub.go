package ws

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"interviewlens/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgJobStarted   MessageType = "job_started"
	MsgJobCompleted MessageType = "job_completed"
	MsgJobFailed    MessageType = "job_failed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans job events out to every connected observer. Slow observers drop
// messages rather than stalling the scheduler.
type Hub struct {
	conns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents one WebSocket observer
type Connection struct {
	Send chan []byte
	Hub  *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			total := len(h.conns)
			h.mu.Unlock()
			log.Printf("Observer connected (%d total)", total)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
			}
			total := len(h.conns)
			h.mu.Unlock()
			log.Printf("Observer disconnected (%d total)", total)

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg)
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// drop for slow observers
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// JobEvent broadcasts a job state transition (implements service.Notifier)
func (h *Hub) JobEvent(job model.ProcessingJob) {
	msgType := MsgJobStarted
	switch job.State {
	case model.JobCompleted:
		msgType = MsgJobCompleted
	case model.JobFailed:
		msgType = MsgJobFailed
	}

	payload, _ := json.Marshal(job)
	select {
	case h.broadcast <- &Message{Type: msgType, Payload: payload}:
	default:
		// never block the scheduler on observers
	}
}
