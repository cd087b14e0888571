// Command pokare-client is a line-oriented debug client for exercising
// a pokare server from a terminal.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

var CLI struct {
	Server string `short:"s" long:"server" default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Name   string `short:"n" long:"name" help:"Display name (defaults to $USER)"`
}

var (
	serverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardRed     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardBlack   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	chatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pokare-client"),
		kong.Description("Debug CLI client for the Pokare server"),
		kong.UsageOnError(),
	)

	name := strings.TrimSpace(CLI.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	conn, _, err := websocket.DefaultDialer.Dial(CLI.Server, nil)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", CLI.Server, err)
		ctx.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	fmt.Println(eventStyle.Render("Connected to " + CLI.Server))
	printHelp()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg protocol.Message
			if err := conn.ReadJSON(&msg); err != nil {
				fmt.Println(errorStyle.Render("Connection closed: " + err.Error()))
				return
			}
			printMessage(&msg)
		}
	}()

	send(conn, protocol.MessageTypeSetProfile, protocol.SetProfileData{Name: name})

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		handleCommand(conn, line)
	}
}

func printHelp() {
	fmt.Println(serverStyle.Render(strings.Join([]string{
		"Commands:",
		"  /create [startingChips smallBlind bigBlind]",
		"  /join <code>   /leave   /start   /next",
		"  /fold /check /call /raise <amount> /allin",
		"  /ability <peek|shield|intimidate|swap|doubledown>",
		"  /say <text>    /quit",
	}, "\n")))
}

func handleCommand(conn *websocket.Conn, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/create":
		var data protocol.CreateRoomData
		if len(args) >= 3 {
			data.StartingChips, _ = strconv.Atoi(args[0])
			data.SmallBlind, _ = strconv.Atoi(args[1])
			data.BigBlind, _ = strconv.Atoi(args[2])
		}
		send(conn, protocol.MessageTypeCreateRoom, data)
	case "/join":
		if len(args) != 1 {
			fmt.Println(errorStyle.Render("usage: /join <code>"))
			return
		}
		send(conn, protocol.MessageTypeJoinRoom, protocol.JoinRoomData{Code: args[0]})
	case "/leave":
		send(conn, protocol.MessageTypeLeaveRoom, struct{}{})
	case "/start":
		send(conn, protocol.MessageTypeStartGame, struct{}{})
	case "/next":
		send(conn, protocol.MessageTypeNextRound, struct{}{})
	case "/fold", "/check", "/call", "/allin":
		send(conn, protocol.MessageTypePlayerAction, protocol.PlayerActionData{Action: strings.TrimPrefix(cmd, "/")})
	case "/raise":
		if len(args) != 1 {
			fmt.Println(errorStyle.Render("usage: /raise <amount>"))
			return
		}
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println(errorStyle.Render("raise amount must be a number"))
			return
		}
		send(conn, protocol.MessageTypePlayerAction, protocol.PlayerActionData{Action: "raise", Amount: amount})
	case "/ability":
		if len(args) != 1 {
			fmt.Println(errorStyle.Render("usage: /ability <name>"))
			return
		}
		send(conn, protocol.MessageTypeUseAbility, protocol.UseAbilityData{Ability: args[0]})
	case "/say":
		send(conn, protocol.MessageTypeChatMessage, protocol.ChatMessageData{Text: strings.Join(args, " ")})
	case "/help":
		printHelp()
	default:
		fmt.Println(errorStyle.Render("unknown command: " + cmd))
	}
}

func send(conn *websocket.Conn, typ protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(typ, payload)
	if err != nil {
		fmt.Println(errorStyle.Render("failed to encode message: " + err.Error()))
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		fmt.Println(errorStyle.Render("failed to send: " + err.Error()))
	}
}

func printMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MessageTypeWelcome:
		var data protocol.WelcomeData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(eventStyle.Render("Welcome, you are " + data.PlayerID))
		}
	case protocol.MessageTypeRoomCreated:
		var data protocol.RoomCreatedData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(eventStyle.Render("Room created: " + data.Code))
		}
	case protocol.MessageTypeRoomJoined:
		var data protocol.RoomJoinedData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(eventStyle.Render("Joined room " + data.Code))
		}
	case protocol.MessageTypeYourCards:
		var data protocol.YourCardsData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println("Your cards: " + renderCards(data.Cards))
		}
	case protocol.MessageTypeYourTurn:
		var data protocol.YourTurnData
		if json.Unmarshal(msg.Data, &data) == nil {
			prompt := "Your turn."
			if data.CanCheck {
				prompt += " You may check."
			}
			if data.CanCall {
				prompt += fmt.Sprintf(" Call costs %d.", data.CallAmount)
			}
			prompt += fmt.Sprintf(" Raise %d-%d.", data.MinRaise, data.MaxRaise)
			fmt.Println(eventStyle.Render(prompt))
		}
	case protocol.MessageTypeActionTaken:
		var data protocol.ActionTakenData
		if json.Unmarshal(msg.Data, &data) == nil {
			line := data.Name + ": " + data.Action
			if data.Amount > 0 {
				line += fmt.Sprintf(" $%d", data.Amount)
			}
			fmt.Println(line)
		}
	case protocol.MessageTypePhaseChange:
		var data protocol.PhaseChangeData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(eventStyle.Render("Phase: "+data.Phase) + "  " + renderCards(data.CommunityCards))
		}
	case protocol.MessageTypeRoundEnd:
		var data protocol.RoundEndData
		if json.Unmarshal(msg.Data, &data) == nil {
			for _, h := range data.AllHands {
				fmt.Printf("%s shows %s (%s)\n", h.Name, renderCards(h.Cards), h.HandName)
			}
			for _, w := range data.Winners {
				fmt.Println(eventStyle.Render(fmt.Sprintf("%s wins the pot of %d", w.Name, data.Pot)))
			}
		}
	case protocol.MessageTypeGameOver:
		var data protocol.GameOverData
		if json.Unmarshal(msg.Data, &data) == nil && data.Winner != nil {
			fmt.Println(eventStyle.Render("Game over, winner: " + data.Winner.Name))
		}
	case protocol.MessageTypeChat:
		var data protocol.ChatData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(chatStyle.Render(data.Name + ": " + data.Text))
		}
	case protocol.MessageTypeError:
		var data protocol.ErrorData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Println(errorStyle.Render("Error [" + data.Code + "]: " + data.Message))
		}
	default:
		fmt.Println(serverStyle.Render(string(msg.Type) + " " + string(msg.Data)))
	}
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		label := c.Rank.String() + suitSymbol(c.Suit)
		if c.Suit.IsRed() {
			parts = append(parts, cardRed.Render(label))
		} else {
			parts = append(parts, cardBlack.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func suitSymbol(s deck.Suit) string {
	switch s {
	case deck.Hearts:
		return "♥"
	case deck.Diamonds:
		return "♦"
	case deck.Clubs:
		return "♣"
	case deck.Spades:
		return "♠"
	}
	return "?"
}
