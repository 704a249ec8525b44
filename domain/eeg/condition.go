package eeg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"eegitpc/domain/core"
)

// Condition is an experimental category over an inclusive stimulus-code range
type Condition struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
	Low   int    `json:"low"`
	High  int    `json:"high"`
}

// Contains reports whether stimulus lies in [Low, High]
func (c Condition) Contains(stimulus int) bool {
	return stimulus >= c.Low && stimulus <= c.High
}

func (c Condition) String() string {
	return fmt.Sprintf("%s=%d-%d", c.Code, c.Low, c.High)
}

// ConditionSet is an ordered, validated, non-overlapping set of conditions.
// It is immutable once built; accessors return copies.
type ConditionSet struct {
	conditions []Condition
}

// NewConditionSet validates codes and ranges and keeps the given order
func NewConditionSet(conditions ...Condition) (*ConditionSet, error) {
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%w: at least one condition is required", core.ErrInvalidCondition)
	}

	seen := make(map[string]bool, len(conditions))
	for _, c := range conditions {
		if strings.TrimSpace(c.Code) == "" {
			return nil, fmt.Errorf("%w: empty code", core.ErrInvalidCondition)
		}
		if seen[c.Code] {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateCondition, c.Code)
		}
		seen[c.Code] = true
		if c.Low > c.High {
			return nil, fmt.Errorf("%w: %s has low %d > high %d", core.ErrInvalidCondition, c.Code, c.Low, c.High)
		}
	}

	sorted := make([]Condition, len(conditions))
	copy(sorted, conditions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Low < sorted[j].Low })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Low <= sorted[i-1].High {
			return nil, core.NewOverlapError(sorted[i-1].Code, sorted[i].Code)
		}
	}

	kept := make([]Condition, len(conditions))
	copy(kept, conditions)
	return &ConditionSet{conditions: kept}, nil
}

// MustConditionSet panics on invalid input; for package-level defaults and tests
func MustConditionSet(conditions ...Condition) *ConditionSet {
	set, err := NewConditionSet(conditions...)
	if err != nil {
		panic(err)
	}
	return set
}

// DefaultConditions returns the deployment's four sentence conditions
func DefaultConditions() *ConditionSet {
	return MustConditionSet(
		Condition{Code: "GN", Label: "Grammatical Nonsensical", Low: 1, High: 30},
		Condition{Code: "GS", Label: "Grammatical Sensical", Low: 31, High: 60},
		Condition{Code: "UN", Label: "Ungrammatical Nonsensical", Low: 61, High: 90},
		Condition{Code: "US", Label: "Ungrammatical Sensical", Low: 91, High: 120},
	)
}

// ParseConditions reads "GN=1-30,GS=31-60". A label may follow the range
// after a colon: "GN=1-30:Grammatical Nonsensical".
func ParseConditions(spec string) (*ConditionSet, error) {
	var conditions []Condition
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not CODE=LOW-HIGH", core.ErrInvalidCondition, entry)
		}
		rangePart, label, _ := strings.Cut(rest, ":")
		lowStr, highStr, ok := splitRange(strings.TrimSpace(rangePart))
		if !ok {
			return nil, fmt.Errorf("%w: %q has no range", core.ErrInvalidCondition, entry)
		}
		low, err := strconv.Atoi(strings.TrimSpace(lowStr))
		if err != nil {
			return nil, fmt.Errorf("%w: %q low bound: %v", core.ErrInvalidCondition, entry, err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(highStr))
		if err != nil {
			return nil, fmt.Errorf("%w: %q high bound: %v", core.ErrInvalidCondition, entry, err)
		}
		conditions = append(conditions, Condition{
			Code:  strings.TrimSpace(code),
			Label: strings.TrimSpace(label),
			Low:   low,
			High:  high,
		})
	}
	return NewConditionSet(conditions...)
}

// splitRange cuts "LOW-HIGH" at the first dash that follows a digit, so
// either bound may carry a sign: "-5-3", "-10--2".
func splitRange(r string) (low, high string, ok bool) {
	for i := 1; i < len(r); i++ {
		if r[i] != '-' {
			continue
		}
		prev := strings.TrimRight(r[:i], " ")
		if prev != "" && prev[len(prev)-1] >= '0' && prev[len(prev)-1] <= '9' {
			return r[:i], r[i+1:], true
		}
	}
	return "", "", false
}

// Conditions returns the conditions in configured order
func (s *ConditionSet) Conditions() []Condition {
	out := make([]Condition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Len returns the number of conditions
func (s *ConditionSet) Len() int { return len(s.conditions) }

// Lookup finds a condition by code
func (s *ConditionSet) Lookup(code string) (Condition, bool) {
	for _, c := range s.conditions {
		if c.Code == code {
			return c, true
		}
	}
	return Condition{}, false
}

// Classify returns the condition containing stimulus, if any
func (s *ConditionSet) Classify(stimulus int) (Condition, bool) {
	for _, c := range s.conditions {
		if c.Contains(stimulus) {
			return c, true
		}
	}
	return Condition{}, false
}

// String renders the set in ParseConditions syntax, labels omitted
func (s *ConditionSet) String() string {
	parts := make([]string, len(s.conditions))
	for i, c := range s.conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
