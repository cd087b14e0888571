package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// Server accepts websocket connections and routes messages between
// clients and their room sessions
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	registry    *Registry
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *Config
	clock       quartz.Clock

	nextPlayerID atomic.Int64
}

// NewServer creates a websocket server with its own room registry
func NewServer(cfg *Config, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: cfg.ListenAddr(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Game clients connect from arbitrary origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		cfg:         cfg,
		clock:       clock,
	}
	s.registry = NewRegistry(s.roomSink, clock, cfg.GameTiming(), cfg.EmptyRoomTTL(), logger)
	return s
}

// Registry exposes the room registry (used by tests and the janitor)
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start runs the listener and the empty-room janitor until Stop
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		err := httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := s.registry.RunJanitor(ctx, s.cfg.CleanupInterval())
		if err == context.Canceled {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		return httpServer.Close()
	})
	return g.Wait()
}

// Stop shuts the server down and closes every connection
func (s *Server) Stop() {
	s.cancel()
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "player", conn.PlayerID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn]
			delete(s.connections, conn)
			total := len(s.connections)
			s.mu.Unlock()
			if !known {
				continue
			}

			// A dropped connection mid-hand is an implicit fold issued
			// through the room's normal removal path.
			if code := conn.RoomCode(); code != "" {
				if session, ok := s.registry.Get(code); ok {
					session.Leave(conn.PlayerID())
				}
			}
			_ = conn.Close()
			s.logger.Info("client disconnected", "player", conn.PlayerID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	playerID := fmt.Sprintf("p%d", s.nextPlayerID.Add(1))
	conn := NewConnection(wsConn, playerID, s, s.logger)
	s.register <- conn
	conn.Start()

	go func() {
		<-conn.ctx.Done()
		select {
		case s.unregister <- conn:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// roomSink is the delivery path game.Room uses for outbound messages
type roomSink struct {
	server *Server
	code   string
}

func (s *Server) roomSink(code string) game.Sink {
	return &roomSink{server: s, code: code}
}

// Broadcast sends to every connection in the room
func (rs *roomSink) Broadcast(msg *protocol.Message) {
	rs.server.mu.RLock()
	defer rs.server.mu.RUnlock()
	for conn := range rs.server.connections {
		if conn.RoomCode() == rs.code {
			_ = conn.SendMessage(msg)
		}
	}
}

// SendTo sends to one player in the room
func (rs *roomSink) SendTo(playerID string, msg *protocol.Message) {
	rs.server.mu.RLock()
	defer rs.server.mu.RUnlock()
	for conn := range rs.server.connections {
		if conn.RoomCode() == rs.code && conn.PlayerID() == playerID {
			_ = conn.SendMessage(msg)
			return
		}
	}
}
