// Package validation provides the accumulating-validation primitives of
// the MTB intake core: severities, located issues, and an Outcome type
// that composes by concatenating issue lists rather than by
// short-circuiting on the first failure.
package validation

import (
	"encoding/json"
	"fmt"
)

// Severity ranks an Issue from least to most blocking. Only Fatal blocks
// intake outright.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "Info":
		*s = Info
	case "Warning":
		*s = Warning
	case "Error":
		*s = Error
	case "Fatal":
		*s = Fatal
	default:
		return fmt.Errorf("validation: unknown severity %q", label)
	}
	return nil
}

// Location pinpoints an Issue within an MTB file: the entity kind and id it
// was raised against, and the offending attribute.
type Location struct {
	EntityKind string
	EntityID   string
	Attribute  string
}

func (l Location) String() string {
	return fmt.Sprintf("%s(%s).%s", l.EntityKind, l.EntityID, l.Attribute)
}

// Issue is a single validation finding.
type Issue struct {
	Severity Severity
	Message  string
	Location Location
}

func NewIssue(sev Severity, loc Location, msg string) Issue {
	return Issue{Severity: sev, Message: msg, Location: loc}
}

// Outcome is either Valid(value) or Invalid(non-empty issues). The zero
// value is an empty Valid outcome of T's zero value.
type Outcome[T any] struct {
	value  T
	issues []Issue
	valid  bool
}

// Valid builds a successful outcome carrying v.
func Valid[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, valid: true}
}

// Invalid builds a failed outcome. The issue list is expected to be
// non-empty; passing none still yields an invalid outcome carrying zero
// issues so callers that attach issues after construction (MustBe et al.)
// are not forced into awkward call shapes, but no direct caller in this
// module does that — every call site supplies at least one issue.
func Invalid[T any](issues ...Issue) Outcome[T] {
	return Outcome[T]{issues: issues, valid: false}
}

// IsValid reports whether the outcome succeeded.
func (o Outcome[T]) IsValid() bool { return o.valid }

// Value returns the carried value. Only meaningful when IsValid is true;
// callers that need the value under failure should use ValueOr.
func (o Outcome[T]) Value() T { return o.value }

// ValueOr returns the carried value if valid, otherwise fallback.
func (o Outcome[T]) ValueOr(fallback T) T {
	if o.valid {
		return o.value
	}
	return fallback
}

// Issues returns the accumulated issues, in the order they were raised.
func (o Outcome[T]) Issues() []Issue { return append([]Issue(nil), o.issues...) }

// WithIssues returns a copy of o with additional issues appended, left
// (o's own issues) then right (the new ones), preserving input order.
func (o Outcome[T]) WithIssues(issues ...Issue) Outcome[T] {
	if len(issues) == 0 {
		return o
	}
	merged := make([]Issue, 0, len(o.issues)+len(issues))
	merged = append(merged, o.issues...)
	merged = append(merged, issues...)
	return Outcome[T]{value: o.value, issues: merged, valid: o.valid}
}

// HasSeverity reports whether any issue in the outcome carries exactly sev.
func (o Outcome[T]) HasSeverity(sev Severity) bool {
	for _, i := range o.issues {
		if i.Severity == sev {
			return true
		}
	}
	return false
}

// HasAtLeast reports whether any issue in the outcome is at or above sev.
func (o Outcome[T]) HasAtLeast(sev Severity) bool {
	for _, i := range o.issues {
		if i.Severity >= sev {
			return true
		}
	}
	return false
}
