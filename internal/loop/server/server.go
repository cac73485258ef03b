package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrServerFull is returned by RegisterClient when the client limit is reached.
var ErrServerFull = errors.New("server is full")

// ErrShuttingDown is returned by RegisterClient once Shutdown has begun.
var ErrShuttingDown = errors.New("server is shutting down")

// Hub is the interface clients use to communicate with the server.
// Decouples the Client from the concrete Server implementation.
type Hub interface {
	RegisterClient(username string) (*ClientHandle, error)
	UnregisterClient(clientID string)
	BroadcastExcept(skipID string, event ClientEvent)
	Stats() Stats
}

// Server tracks connected star field sessions and broadcasts events to them.
// Each session owns its own engine; the server only holds the registry.
type Server struct {
	mu           sync.RWMutex
	clients      map[string]*ClientHandle
	maxClients   int
	shuttingDown bool
	started      time.Time
	served       uint64
	log          *log.Logger
}

// Compile-time check that Server implements Hub.
var _ Hub = (*Server)(nil)

// ClientHandle represents a client's registration with the server.
type ClientHandle struct {
	ID        string
	Username  string
	Connected time.Time
	EventsCh  chan ClientEvent // Events sent to client; closed on unregister
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type    ClientEventType
	Message string // For notices
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNotice
)

// Options configures a Server.
type Options struct {
	MaxClients int // 0 means unlimited
	Logger     *log.Logger
}

// NewServer creates an empty session registry.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		clients:    make(map[string]*ClientHandle),
		maxClients: opts.MaxClients,
		started:    time.Now(),
		log:        logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) (*ClientHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuttingDown {
		return nil, ErrShuttingDown
	}
	if s.maxClients > 0 && len(s.clients) >= s.maxClients {
		return nil, ErrServerFull
	}

	handle := &ClientHandle{
		ID:        uuid.NewString(),
		Username:  username,
		Connected: time.Now(),
		EventsCh:  make(chan ClientEvent, 16),
	}
	s.clients[handle.ID] = handle
	s.served++
	s.log.Debug("client registered", "id", handle.ID, "user", username, "clients", len(s.clients))
	return handle, nil
}

// UnregisterClient removes a client from the server and closes its event channel.
// Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.log.Debug("client unregistered", "id", clientID, "clients", len(s.clients))
}

// Broadcast sends an event to every client. Clients with a full queue miss it.
func (s *Server) Broadcast(event ClientEvent) {
	s.BroadcastExcept("", event)
}

// BroadcastExcept sends an event to every client other than skipID.
func (s *Server) BroadcastExcept(skipID string, event ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, handle := range s.clients {
		if id == skipID {
			continue
		}
		select {
		case handle.EventsCh <- event:
		default:
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. New registrations are refused from here on.
// Returns the number of clients still connected.
func (s *Server) Shutdown(timeout time.Duration) int {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()

	s.Broadcast(ClientEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if remaining := s.Count(); remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			return s.Count()
		case <-ticker.C:
		}
	}
}

// Count returns the number of connected clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Clients returns the connected clients ordered by connection time.
func (s *Server) Clients() []ClientInfo {
	s.mu.RLock()
	infos := make([]ClientInfo, 0, len(s.clients))
	for _, h := range s.clients {
		infos = append(infos, ClientInfo{ID: h.ID, Username: h.Username, Connected: h.Connected})
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Connected.Equal(infos[j].Connected) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].Connected.Before(infos[j].Connected)
	})
	return infos
}
