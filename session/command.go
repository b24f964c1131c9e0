// Package session implements the mode machine and WebSocket protocol
// of spec.md §4.7/§6: a tagged-union command/response envelope, a
// MainMenu/DefineRules/CreateWorld mode machine, and a single-client
// transport. Grounded on the teacher's api/server.go route/dispatch
// table and api/websocket.go's read/write pump pair, collapsed from a
// multi-client broadcaster into one client's strictly sequential
// command/response loop.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/ruleset"
)

// Command is one decoded client request, tagged by its JSON object
// key (spec.md §6: "Commands are a tagged union").
type Command interface {
	commandTag() string
}

type EnterMainMenuMode struct{}
type EnterMode struct {
	Mode string `json:"mode"`
}
type GetModeInfo struct{}
type ListRulesets struct{}
type GetEngineConstants struct{}
type GetDefaultRulesetInput struct{}

type UpdateRules struct {
	RulesetInput ruleset.RulesetInput `json:"rulesetInput"`
}
type CurrentRules struct{}
type ValidateRules struct {
	RulesetInput ruleset.RulesetInput `json:"rulesetInput"`
}
type SaveRules struct{}
type LoadRules struct {
	RulesetName string `json:"rulesetName"`
}

type UpdateDescriptorInput struct {
	Descriptor WorldDescriptorInput `json:"descriptor"`
}
type CurrentDescriptorInput struct{}
type BeginGeneration struct{}
type TakeGenerationStep struct {
	Kind string `json:"kind"`
}
type CurrentGenerationPhase struct{}
type GetMapData struct {
	TopLeft  data.CellCoord `json:"topLeft"`
	Dims     data.WorldDims `json:"dims"`
	DatumIds []string       `json:"datumIds"`
}
type GetMinimapData struct {
	MiniDims data.WorldDims `json:"miniDims"`
	DatumId  string         `json:"datumId"`
}

func (EnterMainMenuMode) commandTag() string      { return "EnterMainMenuMode" }
func (EnterMode) commandTag() string              { return "EnterMode" }
func (GetModeInfo) commandTag() string            { return "GetModeInfo" }
func (ListRulesets) commandTag() string            { return "ListRulesets" }
func (GetEngineConstants) commandTag() string      { return "GetEngineConstants" }
func (GetDefaultRulesetInput) commandTag() string { return "GetDefaultRulesetInput" }
func (UpdateRules) commandTag() string            { return "UpdateRules" }
func (CurrentRules) commandTag() string           { return "CurrentRules" }
func (ValidateRules) commandTag() string          { return "ValidateRules" }
func (SaveRules) commandTag() string              { return "SaveRules" }
func (LoadRules) commandTag() string              { return "LoadRules" }
func (UpdateDescriptorInput) commandTag() string  { return "UpdateDescriptorInput" }
func (CurrentDescriptorInput) commandTag() string { return "CurrentDescriptorInput" }
func (BeginGeneration) commandTag() string        { return "BeginGeneration" }
func (TakeGenerationStep) commandTag() string     { return "TakeGenerationStep" }
func (CurrentGenerationPhase) commandTag() string { return "CurrentGenerationPhase" }
func (GetMapData) commandTag() string             { return "GetMapData" }
func (GetMinimapData) commandTag() string         { return "GetMinimapData" }

// ErrUnknownCommand wraps a DecodeCommand failure caused by an
// unrecognized or malformed tag; the transport closes the connection
// on this error (spec.md §6).
var ErrUnknownCommand = fmt.Errorf("session: unknown command")

func decodeInto[T Command](body json.RawMessage) (Command, error) {
	var v T
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("session: malformed command body: %w", err)
		}
	}
	return v, nil
}

var commandConstructors = map[string]func(json.RawMessage) (Command, error){
	"EnterMainMenuMode":      decodeInto[EnterMainMenuMode],
	"EnterMode":              decodeInto[EnterMode],
	"GetModeInfo":            decodeInto[GetModeInfo],
	"ListRulesets":           decodeInto[ListRulesets],
	"GetEngineConstants":     decodeInto[GetEngineConstants],
	"GetDefaultRulesetInput": decodeInto[GetDefaultRulesetInput],
	"UpdateRules":            decodeInto[UpdateRules],
	"CurrentRules":           decodeInto[CurrentRules],
	"ValidateRules":          decodeInto[ValidateRules],
	"SaveRules":              decodeInto[SaveRules],
	"LoadRules":              decodeInto[LoadRules],
	"UpdateDescriptorInput":  decodeInto[UpdateDescriptorInput],
	"CurrentDescriptorInput": decodeInto[CurrentDescriptorInput],
	"BeginGeneration":        decodeInto[BeginGeneration],
	"TakeGenerationStep":     decodeInto[TakeGenerationStep],
	"CurrentGenerationPhase": decodeInto[CurrentGenerationPhase],
	"GetMapData":             decodeInto[GetMapData],
	"GetMinimapData":         decodeInto[GetMinimapData],
}

// DecodeCommand parses one tagged-union command envelope: a JSON
// object with exactly one key naming the command.
func DecodeCommand(raw []byte) (Command, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", ErrUnknownCommand, err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: envelope must have exactly one tag, got %d", ErrUnknownCommand, len(obj))
	}
	for tag, body := range obj {
		ctor, known := commandConstructors[tag]
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tag)
		}
		return ctor(body)
	}
	panic("unreachable")
}
