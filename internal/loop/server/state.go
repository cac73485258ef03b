package server

import "time"

// ClientInfo is a read-only view of a registered client.
type ClientInfo struct {
	ID        string
	Username  string
	Connected time.Time
}

// Stats is a point-in-time summary of the server.
type Stats struct {
	Clients      int
	Served       uint64 // Registrations since start
	Uptime       time.Duration
	ShuttingDown bool
}

// Stats returns the current summary.
func (s *Server) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Clients:      len(s.clients),
		Served:       s.served,
		Uptime:       time.Since(s.started),
		ShuttingDown: s.shuttingDown,
	}
}
