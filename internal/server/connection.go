package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
	"github.com/sebastiansanchezsa/PokareGame/internal/roomcode"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; avatars ride in profile
	// messages so this is generous
	maxMessageSize = 1 << 20

	maxNameLength = 20
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps one websocket client: a player identity, an optional
// room membership and the read/write pumps.
type Connection struct {
	conn     *websocket.Conn
	send     chan *protocol.Message
	playerID string

	name   string
	avatar string

	roomCode string

	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a connection wrapper with a server-assigned
// player id
func NewConnection(conn *websocket.Conn, playerID string, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *protocol.Message, 256),
		playerID: playerID,
		name:     "Player",
		server:   server,
		logger:   logger.WithPrefix("conn").With("player", playerID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
	c.sendMsg(protocol.MessageTypeWelcome, protocol.WelcomeData{PlayerID: c.playerID})
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A full buffer closes the
// connection rather than blocking a room.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the server-assigned player id
func (c *Connection) PlayerID() string {
	return c.playerID
}

// RoomCode returns the code of the room this connection sits in, or ""
func (c *Connection) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

func (c *Connection) setRoomCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

func (c *Connection) profile() (name, avatar string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name, c.avatar
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg protocol.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case protocol.MessageTypeSetProfile:
		var data protocol.SetProfileData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse profile data")
			return
		}
		c.handleSetProfile(data)

	case protocol.MessageTypeCreateRoom:
		var data protocol.CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse room settings")
			return
		}
		c.handleCreateRoom(data)

	case protocol.MessageTypeJoinRoom:
		var data protocol.JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoinRoom(data)

	case protocol.MessageTypeLeaveRoom:
		c.handleLeaveRoom()

	case protocol.MessageTypeStartGame:
		if session, ok := c.session(); ok {
			session.StartGame(c.playerID)
		}

	case protocol.MessageTypePlayerAction:
		var data protocol.PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action")
			return
		}
		if session, ok := c.session(); ok {
			session.PlayerAction(c.playerID, data.Action, data.Amount)
		}

	case protocol.MessageTypeUseAbility:
		var data protocol.UseAbilityData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse ability")
			return
		}
		if session, ok := c.session(); ok {
			session.UseAbility(c.playerID, data.Ability)
		}

	case protocol.MessageTypeNextRound:
		if session, ok := c.session(); ok {
			session.NextRound(c.playerID)
		}

	case protocol.MessageTypeChatMessage:
		var data protocol.ChatMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse chat")
			return
		}
		if session, ok := c.session(); ok {
			session.Chat(c.playerID, data.Text)
		}

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) session() (*Session, bool) {
	code := c.RoomCode()
	if code == "" {
		return nil, false
	}
	return c.server.registry.Get(code)
}

func (c *Connection) handleSetProfile(data protocol.SetProfileData) {
	name := data.Name
	if name == "" {
		name = "Player"
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	c.mu.Lock()
	c.name = name
	c.avatar = data.Avatar
	c.mu.Unlock()

	c.sendMsg(protocol.MessageTypeProfileSet, protocol.ProfileSetData{
		Player: protocol.PlayerProfile{ID: c.playerID, Name: name, Avatar: data.Avatar},
	})
}

func (c *Connection) handleCreateRoom(data protocol.CreateRoomData) {
	if c.RoomCode() != "" {
		c.sendError("already_in_room", "Leave your current room first")
		return
	}

	settings := c.server.cfg.RoomSettings(data)
	session := c.server.registry.Create(settings)
	name, avatar := c.profile()

	code := session.Code()
	c.setRoomCode(code)
	if err := session.Join(c.playerID, name, avatar); err != nil {
		c.setRoomCode("")
		c.sendError("join_failed", err.Error())
		return
	}

	c.logger.Info("room created", "room", code)
	c.sendMsg(protocol.MessageTypeRoomCreated, protocol.RoomCreatedData{Code: code, Settings: settings})
}

func (c *Connection) handleJoinRoom(data protocol.JoinRoomData) {
	if c.RoomCode() != "" {
		c.sendError("already_in_room", "Leave your current room first")
		return
	}

	code := roomcode.Normalize(data.Code)
	session, ok := c.server.registry.Get(code)
	if !ok {
		c.sendError("room_not_found", "Room not found")
		return
	}

	name, avatar := c.profile()
	c.setRoomCode(code)
	if err := session.Join(c.playerID, name, avatar); err != nil {
		c.setRoomCode("")
		switch err {
		case ErrRoomFull:
			c.sendError("room_full", "Room is full")
		case ErrGameStarted:
			c.sendError("game_in_progress", "Game already in progress")
		default:
			c.sendError("join_failed", err.Error())
		}
		return
	}

	c.logger.Info("joined room", "room", code)
	c.sendMsg(protocol.MessageTypeRoomJoined, protocol.RoomJoinedData{Code: code, Settings: session.Settings()})
}

func (c *Connection) handleLeaveRoom() {
	code := c.RoomCode()
	if code == "" {
		return
	}
	if session, ok := c.server.registry.Get(code); ok {
		session.Leave(c.playerID)
	}
	c.setRoomCode("")
	c.sendMsg(protocol.MessageTypeRoomLeft, protocol.RoomLeftData{Code: code})
}

func (c *Connection) sendMsg(typ protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(typ, payload)
	if err != nil {
		c.logger.Error("failed to create message", "type", typ, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(code, message string) {
	c.sendMsg(protocol.MessageTypeError, protocol.ErrorData{Code: code, Message: message})
}
