package session

import (
	"encoding/json"
	"fmt"

	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/ruleset"
	"github.com/kannanvijayan/renfrew-river/rulesetstore"
)

// Response is one server reply, tagged by its JSON object key the
// same way Command is.
type Response interface {
	responseTag() string
}

// Ok is the generic success reply for commands with nothing else to
// report.
type Ok struct{}

// Failed reports one or more human-readable failure messages. It is
// the error shape for every failure except ruleset validation, which
// is reported as ValidationFailed, and structural decode failures,
// which close the connection instead of producing a response.
type Failed struct {
	Messages []string `json:"messages"`
}

type ModeInfo struct {
	Mode string `json:"mode"`
}

type RulesetList struct {
	Rulesets []rulesetstore.Entry `json:"rulesets"`
}

type CurrentRulesResponse struct {
	RulesetInput ruleset.RulesetInput `json:"rulesetInput"`
}

type ValidationFailed struct {
	Validation *ruleset.RulesetValidation `json:"validation"`
}

type EngineConstantsResponse struct {
	MaxWorldColumns   uint16 `json:"maxWorldColumns"`
	MaxWorldRows      uint16 `json:"maxWorldRows"`
	MaxFormatBits     uint8  `json:"maxFormatBits"`
	PerlinRegisterMax uint8  `json:"perlinRegisterMax"`
}

type DefaultRulesetInputResponse struct {
	RulesetInput ruleset.RulesetInput `json:"rulesetInput"`
}

type CurrentDescriptorInputResponse struct {
	Descriptor WorldDescriptorInput `json:"descriptor"`
}

type GenerationPhaseResponse struct {
	Phase string `json:"phase"`
}

type MapDataResponse struct {
	Datums map[string][]uint32 `json:"datums"`
}

type MinimapDataResponse struct {
	Dims   data.WorldDims `json:"dims"`
	Values []uint32       `json:"values"`
}

func (Ok) responseTag() string                         { return "Ok" }
func (Failed) responseTag() string                     { return "Failed" }
func (ModeInfo) responseTag() string                   { return "ModeInfo" }
func (RulesetList) responseTag() string                { return "RulesetList" }
func (CurrentRulesResponse) responseTag() string       { return "CurrentRules" }
func (ValidationFailed) responseTag() string           { return "ValidationFailed" }
func (EngineConstantsResponse) responseTag() string    { return "EngineConstants" }
func (DefaultRulesetInputResponse) responseTag() string { return "DefaultRulesetInput" }
func (CurrentDescriptorInputResponse) responseTag() string {
	return "CurrentDescriptorInput"
}
func (GenerationPhaseResponse) responseTag() string { return "GenerationPhase" }
func (MapDataResponse) responseTag() string         { return "MapData" }
func (MinimapDataResponse) responseTag() string     { return "MinimapData" }

// encodeResponse wraps resp in its single-key tagged envelope and
// marshals it.
func encodeResponse(resp Response) ([]byte, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("session: marshal response body: %w", err)
	}
	envelope := map[string]json.RawMessage{resp.responseTag(): body}
	return json.Marshal(envelope)
}
