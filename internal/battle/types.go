package battle

import (
	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
)

// ActionContext describes the action whose effects are being applied
type ActionContext struct {
	// Attacker is the user of the action. Nil means a scripted source with neutral luck.
	Attacker *character.Character
	// CertainHit marks actions that cannot miss
	CertainHit bool
	// Result collects what the action did. Optional.
	Result *ActionResult
}

// ActionResult records the outcome of one action against one target
type ActionResult struct {
	// Success is set once any effect landed
	Success       bool
	AddedStates   []states.ID
	RemovedStates []states.ID
}

func (r *ActionResult) pushAdded(id states.ID) {
	if r == nil {
		return
	}
	r.AddedStates = append(r.AddedStates, id)
}

func (r *ActionResult) pushRemoved(ids ...states.ID) {
	if r == nil {
		return
	}
	r.RemovedStates = append(r.RemovedStates, ids...)
}

func (r *ActionResult) markSuccess() {
	if r == nil {
		return
	}
	r.Success = true
}
