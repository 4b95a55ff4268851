package game

import (
	"encoding/json"
	"fmt"
)

// Command is the sealed set of client messages. The room actor handles every
// variant in one exhaustive type switch; unknown types fail decoding and are
// dropped at the read pump.
type Command interface {
	commandType() string
}

type JoinCommand struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type ToggleReadyCommand struct{}

type UpdateConfigCommand struct {
	Config ConfigPatch `json:"config"`
}

type StartGameCommand struct{}

type SubmitClueCommand struct {
	Text string `json:"text"`
}

type SubmitVoteCommand struct {
	TargetID string `json:"targetId"`
}

type SubmitGuessCommand struct {
	Word string `json:"word"`
}

// PlayFoolCommand is declared in the protocol but has no server behavior.
type PlayFoolCommand struct {
	Choice string `json:"choice"`
}

type NextRoundCommand struct{}

type RestartGameCommand struct{}

func (JoinCommand) commandType() string         { return "JOIN" }
func (ToggleReadyCommand) commandType() string  { return "TOGGLE_READY" }
func (UpdateConfigCommand) commandType() string { return "UPDATE_CONFIG" }
func (StartGameCommand) commandType() string    { return "START_GAME" }
func (SubmitClueCommand) commandType() string   { return "SUBMIT_CLUE" }
func (SubmitVoteCommand) commandType() string   { return "SUBMIT_VOTE" }
func (SubmitGuessCommand) commandType() string  { return "SUBMIT_GUESS" }
func (PlayFoolCommand) commandType() string     { return "PLAY_FOOL" }
func (NextRoundCommand) commandType() string    { return "NEXT_ROUND" }
func (RestartGameCommand) commandType() string  { return "RESTART_GAME" }

// DecodeCommand parses one inbound frame. Command fields live flat next to the
// type tag, mirroring the client protocol.
func DecodeCommand(data []byte) (Command, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "JOIN":
		var c JoinCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "TOGGLE_READY":
		return ToggleReadyCommand{}, nil
	case "UPDATE_CONFIG":
		var c UpdateConfigCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "START_GAME":
		return StartGameCommand{}, nil
	case "SUBMIT_CLUE":
		var c SubmitClueCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "SUBMIT_VOTE":
		var c SubmitVoteCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "SUBMIT_GUESS":
		var c SubmitGuessCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "PLAY_FOOL":
		var c PlayFoolCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "NEXT_ROUND":
		return NextRoundCommand{}, nil
	case "RESTART_GAME":
		return RestartGameCommand{}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", head.Type)
	}
}

type updateStateEvent struct {
	Type         string     `json:"type"`
	State        *RoomState `json:"state"`
	YourPlayerID string     `json:"yourPlayerId,omitempty"`
}

// errorEvent is only ever written by the transport layer, before a connection
// is seated in a room. The room core itself never emits it.
type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorEvent(message string) errorEvent {
	return errorEvent{Type: "ERROR", Message: message}
}
