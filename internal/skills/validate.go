package skills

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/rpportal/internal/common"
)

// Validate checks a submitted build: every attribute present, each level in
// range, no unknown keys and the full budget spent.
func Validate(s Set) error {
	var problems []string

	var unknown []string
	for a := range s {
		if !a.Valid() {
			unknown = append(unknown, string(a))
		}
	}
	sort.Strings(unknown)
	for _, a := range unknown {
		problems = append(problems, fmt.Sprintf("skills: unknown attribute %q", a))
	}

	for _, a := range attributes {
		lvl, ok := s[a]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("skills: %s is missing", a))
		case lvl < MinLevel || lvl > MaxLevel:
			problems = append(problems, fmt.Sprintf("skills: %s must be between %d and %d", a, MinLevel, MaxLevel))
		}
	}

	if len(problems) == 0 && s.Sum() != TotalBudget {
		problems = append(problems, fmt.Sprintf("skills: levels must add up to %d, got %d", TotalBudget, s.Sum()))
	}

	return common.NewValidationError(problems...)
}
