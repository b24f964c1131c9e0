package session

import (
	"fmt"
	"time"

	"github.com/kannanvijayan/renfrew-river/ruleset"
	"github.com/kannanvijayan/renfrew-river/rulesetstore"
)

// defaultDeviceTickInterval matches compute's own ~100 Hz default, used
// when a Session is built via NewSession rather than NewSessionWithDeviceTickInterval.
const defaultDeviceTickInterval = 10 * time.Millisecond

// Mode is one of the three top-level client modes of spec.md §4.7.
type Mode int

const (
	MainMenu Mode = iota
	DefineRules
	CreateWorld
)

func (m Mode) String() string {
	switch m {
	case MainMenu:
		return "MainMenu"
	case DefineRules:
		return "DefineRules"
	case CreateWorld:
		return "CreateWorld"
	default:
		return "Unknown"
	}
}

// Session holds one connected client's server-side state. A Session is
// driven by exactly one goroutine at a time (the transport's
// read-dispatch-write loop), so it carries no internal locking of its
// own (spec.md §5: "one command is in flight per connection").
type Session struct {
	store *rulesetstore.Store

	mode Mode

	rulesetInput  ruleset.RulesetInput
	activeRuleset *ruleset.Ruleset

	descriptorInput    WorldDescriptorInput
	generation         *generation
	deviceTickInterval time.Duration
}

// NewSession starts a session in MainMenu, with DefineRules state
// seeded to an immediately-saveable default (spec.md §5's
// GetDefaultRulesetInput mirrors this), and the compute device's
// default poll cadence.
func NewSession(store *rulesetstore.Store) *Session {
	return NewSessionWithDeviceTickInterval(store, defaultDeviceTickInterval)
}

// NewSessionWithDeviceTickInterval starts a session whose generations
// poll their compute device at the given cadence instead of the
// default, mirroring config's Generation.DeviceTickIntervalMs.
func NewSessionWithDeviceTickInterval(store *rulesetstore.Store, deviceTickInterval time.Duration) *Session {
	return &Session{
		store:              store,
		mode:               MainMenu,
		rulesetInput:       DefaultRulesetInput(),
		deviceTickInterval: deviceTickInterval,
	}
}

// Handle dispatches one decoded command and returns its response.
// Every recognized command produces a Response; failures never panic
// or propagate as transport errors, they come back as Failed (spec.md
// §6, §7).
func (s *Session) Handle(cmd Command) Response {
	switch c := cmd.(type) {
	case EnterMainMenuMode:
		if s.generation != nil {
			s.generation.release()
			s.generation = nil
		}
		s.mode = MainMenu
		return Ok{}
	case EnterMode:
		return s.handleEnterMode(c)
	case GetModeInfo:
		return ModeInfo{Mode: s.mode.String()}
	case ListRulesets:
		return RulesetList{Rulesets: s.store.List()}
	case GetEngineConstants:
		return EngineConstants()
	case GetDefaultRulesetInput:
		return DefaultRulesetInputResponse{RulesetInput: DefaultRulesetInput()}

	case UpdateRules:
		return s.handleUpdateRules(c)
	case CurrentRules:
		return s.handleCurrentRules()
	case ValidateRules:
		return s.handleValidateRules(c)
	case SaveRules:
		return s.handleSaveRules()
	case LoadRules:
		return s.handleLoadRules(c)

	case UpdateDescriptorInput:
		return s.handleUpdateDescriptorInput(c)
	case CurrentDescriptorInput:
		return CurrentDescriptorInputResponse{Descriptor: s.descriptorInput}
	case BeginGeneration:
		return s.handleBeginGeneration()
	case TakeGenerationStep:
		return s.handleTakeGenerationStep(c)
	case CurrentGenerationPhase:
		return s.handleCurrentGenerationPhase()
	case GetMapData:
		return s.handleGetMapData(c)
	case GetMinimapData:
		return s.handleGetMinimapData(c)

	default:
		return Failed{Messages: []string{fmt.Sprintf("unhandled command %T", cmd)}}
	}
}

func (s *Session) handleEnterMode(c EnterMode) Response {
	if s.mode != MainMenu {
		return Failed{Messages: []string{fmt.Sprintf("Cannot enter a mode from %s", s.mode)}}
	}
	switch c.Mode {
	case "DefineRules":
		s.mode = DefineRules
		return Ok{}
	case "CreateWorld":
		s.mode = CreateWorld
		return Ok{}
	default:
		return Failed{Messages: []string{fmt.Sprintf("Unknown mode %q", c.Mode)}}
	}
}

func (s *Session) handleUpdateRules(c UpdateRules) Response {
	if s.mode != DefineRules {
		return Failed{Messages: []string{fmt.Sprintf("Cannot update rules in mode %s", s.mode)}}
	}
	s.rulesetInput = c.RulesetInput
	return Ok{}
}

func (s *Session) handleCurrentRules() Response {
	if s.mode != DefineRules {
		return Failed{Messages: []string{fmt.Sprintf("Cannot read rules in mode %s", s.mode)}}
	}
	return CurrentRulesResponse{RulesetInput: s.rulesetInput}
}

func (s *Session) handleValidateRules(c ValidateRules) Response {
	if s.mode != DefineRules {
		return Failed{Messages: []string{fmt.Sprintf("Cannot validate rules in mode %s", s.mode)}}
	}
	_, v := c.RulesetInput.ToValidated()
	if v.HasErrors() {
		return ValidationFailed{Validation: v}
	}
	return Ok{}
}

func (s *Session) handleSaveRules() Response {
	if s.mode != DefineRules {
		return Failed{Messages: []string{fmt.Sprintf("Cannot save rules in mode %s", s.mode)}}
	}
	rules, v := s.rulesetInput.ToValidated()
	if v.HasErrors() {
		return ValidationFailed{Validation: v}
	}
	if err := s.store.Write(*rules); err != nil {
		return Failed{Messages: []string{err.Error()}}
	}
	s.activeRuleset = rules
	return Ok{}
}

func (s *Session) handleLoadRules(c LoadRules) Response {
	if s.mode != DefineRules {
		return Failed{Messages: []string{fmt.Sprintf("Cannot load rules in mode %s", s.mode)}}
	}
	rules, err := s.store.Read(c.RulesetName)
	if err != nil {
		return Failed{Messages: []string{err.Error()}}
	}
	s.rulesetInput = rules.ToInput()
	s.activeRuleset = rules
	return Ok{}
}

func (s *Session) handleUpdateDescriptorInput(c UpdateDescriptorInput) Response {
	if s.mode != CreateWorld {
		return Failed{Messages: []string{fmt.Sprintf("Cannot update descriptor in mode %s", s.mode)}}
	}
	s.descriptorInput = c.Descriptor
	return Ok{}
}

func (s *Session) handleBeginGeneration() Response {
	if s.mode != CreateWorld {
		return Failed{Messages: []string{fmt.Sprintf("Cannot begin generation in mode %s", s.mode)}}
	}
	if s.generation != nil {
		return Failed{Messages: []string{"Generation already in progress"}}
	}
	if s.activeRuleset == nil {
		return Failed{Messages: []string{"No ruleset has been saved or loaded"}}
	}
	desc, v := s.descriptorInput.ToValidated()
	if v.HasErrors() {
		return Failed{Messages: collectDescriptorErrors(v)}
	}
	s.generation = newGeneration(*s.activeRuleset, *desc, s.deviceTickInterval)
	return Ok{}
}

func (s *Session) handleTakeGenerationStep(c TakeGenerationStep) Response {
	if s.mode != CreateWorld || s.generation == nil {
		return Failed{Messages: []string{"Generation has not begun"}}
	}
	if err := s.generation.takeStep(c.Kind); err != nil {
		return Failed{Messages: []string{err.Error()}}
	}
	return Ok{}
}

func (s *Session) handleCurrentGenerationPhase() Response {
	if s.mode != CreateWorld || s.generation == nil {
		return Failed{Messages: []string{"Generation has not begun"}}
	}
	return GenerationPhaseResponse{Phase: s.generation.machine.Phase().String()}
}

func (s *Session) handleGetMapData(c GetMapData) Response {
	if s.mode != CreateWorld || s.generation == nil {
		return Failed{Messages: []string{"Generation has not begun"}}
	}
	datums, err := s.generation.readMapData(c.TopLeft, c.Dims, c.DatumIds)
	if err != nil {
		return Failed{Messages: []string{err.Error()}}
	}
	return MapDataResponse{Datums: datums}
}

func (s *Session) handleGetMinimapData(c GetMinimapData) Response {
	if s.mode != CreateWorld || s.generation == nil {
		return Failed{Messages: []string{"Generation has not begun"}}
	}
	vm, err := s.generation.readMinimapData(c.MiniDims, c.DatumId)
	if err != nil {
		return Failed{Messages: []string{err.Error()}}
	}
	return MinimapDataResponse{Dims: vm.Dims, Values: vm.Tiles}
}
