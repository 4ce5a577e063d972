package protocol

import (
	"encoding/json"

	"github.com/rileyhilliard/gsconsole/internal/power"
)

// Outbound frame discriminants.
const (
	TypeAuth             = "auth"
	TypeSubscribeConsole = "subscribe_console"
	TypeSubscribeStats   = "subscribe_stats"
	TypeSendCommand      = "send_command"
	TypeSendPowerAction  = "send_power_action"
)

type authFrame struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	TargetID string `json:"targetId"`
}

type bareFrame struct {
	Type string `json:"type"`
}

type commandFrame struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type powerFrame struct {
	Type   string       `json:"type"`
	Action power.Action `json:"action"`
}

// Auth encodes the authentication frame sent first on every connection.
func Auth(token, targetID string) []byte {
	return mustMarshal(authFrame{Type: TypeAuth, Token: token, TargetID: targetID})
}

// SubscribeConsole encodes the console subscription request.
func SubscribeConsole() []byte {
	return mustMarshal(bareFrame{Type: TypeSubscribeConsole})
}

// SubscribeStats encodes the stats subscription request.
func SubscribeStats() []byte {
	return mustMarshal(bareFrame{Type: TypeSubscribeStats})
}

// SendCommand encodes a console command.
func SendCommand(command string) []byte {
	return mustMarshal(commandFrame{Type: TypeSendCommand, Command: command})
}

// SendPowerAction encodes a power intent.
func SendPowerAction(action power.Action) []byte {
	return mustMarshal(powerFrame{Type: TypeSendPowerAction, Action: action})
}

// mustMarshal encodes frames built only from strings, which cannot fail.
func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("protocol: encoding frame: " + err.Error())
	}
	return data
}
