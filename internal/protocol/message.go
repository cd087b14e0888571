package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message
type MessageType string

// Client to server messages
const (
	MessageTypeSetProfile   MessageType = "setProfile"
	MessageTypeCreateRoom   MessageType = "createRoom"
	MessageTypeJoinRoom     MessageType = "joinRoom"
	MessageTypeLeaveRoom    MessageType = "leaveRoom"
	MessageTypeStartGame    MessageType = "startGame"
	MessageTypePlayerAction MessageType = "playerAction"
	MessageTypeUseAbility   MessageType = "useAbility"
	MessageTypeNextRound    MessageType = "nextRound"
	MessageTypeChatMessage  MessageType = "chatMessage"
)

// Server to client messages
const (
	MessageTypeWelcome       MessageType = "welcome"
	MessageTypeProfileSet    MessageType = "profileSet"
	MessageTypeRoomCreated   MessageType = "roomCreated"
	MessageTypeRoomJoined    MessageType = "roomJoined"
	MessageTypeRoomLeft      MessageType = "roomLeft"
	MessageTypeRoomState     MessageType = "roomState"
	MessageTypeGameStarted   MessageType = "gameStarted"
	MessageTypeCardsDealt    MessageType = "cardsDealt"
	MessageTypeYourCards     MessageType = "yourCards"
	MessageTypeGameState     MessageType = "gameState"
	MessageTypeYourTurn      MessageType = "yourTurn"
	MessageTypeActionTaken   MessageType = "playerActionTaken"
	MessageTypePhaseChange   MessageType = "phaseChange"
	MessageTypeAbilityUsed   MessageType = "abilityUsed"
	MessageTypeAbilityResult MessageType = "abilityResult"
	MessageTypeRoundEnd      MessageType = "roundEnd"
	MessageTypeGameOver      MessageType = "gameOver"
	MessageTypeChat          MessageType = "chat"
	MessageTypeError         MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the base websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp. Payloads are
// our own structs, so marshal failures indicate a programming error.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// MustMessage is NewMessage for payloads that cannot fail to marshal
func MustMessage(messageType MessageType, data interface{}) *Message {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		panic("protocol: unmarshalable payload: " + err.Error())
	}
	return msg
}
