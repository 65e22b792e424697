// Package skills implements the character build point allocator: five
// attributes, each between MinLevel and MaxLevel, sharing a fixed budget.
package skills

import (
	"encoding/json"
	"fmt"
)

const (
	MinLevel      = 1
	MaxLevel      = 6
	Discretionary = 10
	// TotalBudget is the sum every finished build must reach.
	TotalBudget = len(attributes)*MinLevel + Discretionary
)

// Attribute names one of the five character aptitudes.
type Attribute string

const (
	Strength     Attribute = "strength"
	Toughness    Attribute = "toughness"
	Agility      Attribute = "agility"
	Intelligence Attribute = "intelligence"
	Craft        Attribute = "craft"
)

var attributes = [...]Attribute{Strength, Toughness, Agility, Intelligence, Craft}

// Attributes returns the attributes in display order.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributes))
	copy(out, attributes[:])
	return out
}

func (a Attribute) Valid() bool {
	for _, known := range attributes {
		if a == known {
			return true
		}
	}
	return false
}

func (a Attribute) String() string { return string(a) }

// Set maps every attribute to its level.
type Set map[Attribute]int

// Baseline returns a set with every attribute at MinLevel.
func Baseline() Set {
	s := make(Set, len(attributes))
	for _, a := range attributes {
		s[a] = MinLevel
	}
	return s
}

// Level returns the level of a, zero when absent.
func (s Set) Level(a Attribute) int { return s[a] }

// Sum adds up the levels of the known attributes.
func (s Set) Sum() int {
	total := 0
	for _, a := range attributes {
		total += s[a]
	}
	return total
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UnmarshalJSON rejects keys that are not attribute names.
func (s *Set) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Set, len(raw))
	for k, v := range raw {
		a := Attribute(k)
		if !a.Valid() {
			return fmt.Errorf("unknown attribute %q", k)
		}
		out[a] = v
	}
	*s = out
	return nil
}
