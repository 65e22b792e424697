package skills

// Allocator is the in-progress build owned by one form session. The zero
// value is not ready for use; call New or Initialize.
//
// Levels.Sum() + Remaining == TotalBudget holds after every call.
type Allocator struct {
	Levels    Set `json:"levels"`
	Remaining int `json:"remaining"`
}

func New() *Allocator {
	a := &Allocator{}
	a.Initialize()
	return a
}

// Initialize resets every attribute to MinLevel and restores the full
// discretionary budget.
func (al *Allocator) Initialize() {
	al.Levels = Baseline()
	al.Remaining = TotalBudget - len(attributes)*MinLevel
}

// SetLevel moves attr to level, clamped into [MinLevel, MaxLevel]. A change
// that would overspend the budget, or an unknown attribute, leaves the state
// untouched. The result reports whether the change was applied.
func (al *Allocator) SetLevel(attr Attribute, level int) bool {
	if !attr.Valid() {
		return false
	}
	if al.Levels == nil {
		al.Initialize()
	}

	level = clamp(level)
	delta := level - al.Levels[attr]
	if al.Remaining-delta < 0 {
		return false
	}

	al.Levels[attr] = level
	al.Remaining -= delta
	return true
}

// Increment raises attr by one level.
func (al *Allocator) Increment(attr Attribute) bool {
	if al.Levels[attr] >= MaxLevel {
		return false
	}
	return al.SetLevel(attr, al.Levels[attr]+1)
}

// Decrement lowers attr by one level.
func (al *Allocator) Decrement(attr Attribute) bool {
	if al.Levels[attr] <= MinLevel {
		return false
	}
	return al.SetLevel(attr, al.Levels[attr]-1)
}

// IsComplete reports whether the whole budget has been spent.
func (al *Allocator) IsComplete() bool {
	return al.Levels != nil && al.Remaining == 0
}

// Effect returns the effect label for the current level of attr.
func (al *Allocator) Effect(attr Attribute) string {
	return EffectAt(attr, al.Levels[attr])
}

// Snapshot returns a copy of the levels suitable for submission.
func (al *Allocator) Snapshot() Set {
	return al.Levels.Clone()
}

func clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
