package accumulation

import (
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
)

// GaugeOwner is a battler that names the state its gauge follows
type GaugeOwner interface {
	Battler
	GaugeState() states.ID
}

// SwitchReader reads game switches
type SwitchReader interface {
	Switch(id int) bool
}

// GaugeView is what the presentation layer polls once per frame
type GaugeView struct {
	CharacterID string
	StateID     states.ID
	Fraction    float64
	X           float64
	Y           float64
	Visible     bool
}

// Gauge builds the read-only gauge view for a battler
func (e *Engine) Gauge(b GaugeOwner, switches SwitchReader) GaugeView {
	view := GaugeView{
		CharacterID: b.GetID(),
		StateID:     b.GaugeState(),
	}
	if !e.IsAccumulative(view.StateID) {
		return view
	}

	def, _ := e.states.State(view.StateID)
	view.Fraction = e.GaugeFraction(b, view.StateID)
	view.X = def.FloatTag(states.TagGaugeX, 0)
	view.Y = def.FloatTag(states.TagGaugeY, 0)
	view.Visible = e.gaugeVisible(switches)
	return view
}

func (e *Engine) gaugeVisible(switches SwitchReader) bool {
	if !e.settings.GaugeVisible {
		return false
	}
	if e.settings.GaugeSwitchID == 0 {
		return true
	}
	return switches != nil && switches.Switch(e.settings.GaugeSwitchID)
}
