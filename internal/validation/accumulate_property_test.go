package validation

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genIssue generates an Issue whose message and attribute come from a small
// alphabet, so generated property runs actually collide on equal issues
// often enough to exercise order-sensitive equality checks.
func genIssue() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(Info, Warning, Error, Fatal),
		gen.OneConstOf("a", "b", "c"),
		gen.OneConstOf("x", "y"),
	).Map(func(vs []interface{}) Issue {
		sev := vs[0].(Severity)
		attr := vs[1].(string)
		msg := vs[2].(string)
		return NewIssue(sev, Location{EntityKind: "T", EntityID: "1", Attribute: attr}, msg)
	})
}

// ValidateEach must preserve the input element order of the items it
// validates, regardless of how many pass or fail.
func TestValidateEach_PreservesOrderProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)

	properties.Property("ValidateEach issues appear in input order", prop.ForAll(
		func(values []int) bool {
			validate := func(v int) Outcome[int] {
				if v%2 == 0 {
					return Valid(v)
				}
				return Invalid[int](NewIssue(Error, Location{EntityKind: "N", EntityID: strconv.Itoa(v), Attribute: "v"}, "odd"))
			}
			out := ValidateEach(values, validate)

			var wantIDs []string
			for _, v := range values {
				if v%2 != 0 {
					wantIDs = append(wantIDs, strconv.Itoa(v))
				}
			}
			if len(out.issues) != len(wantIDs) {
				return false
			}
			for i, id := range wantIDs {
				if out.issues[i].Location.EntityID != id {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-50, 50)),
	))

	properties.TestingRun(t)
}

// Combine is order-preserving and deterministic: running it twice on the
// same inputs always yields the same issue sequence.
func TestCombine_DeterministicProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)

	properties.Property("Combine is deterministic across repeated runs", prop.ForAll(
		func(issues []Issue) bool {
			outcomes := make([]Outcome[struct{}], len(issues))
			for i, issue := range issues {
				outcomes[i] = Invalid[struct{}](issue)
			}
			first := Combine(outcomes...)
			second := Combine(outcomes...)

			if len(first.issues) != len(second.issues) {
				return false
			}
			for i := range first.issues {
				if first.issues[i] != second.issues[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genIssue()),
	))

	properties.TestingRun(t)
}

// AndThen concatenates a's issues before next's, regardless of how many
// issues each side carries — the order is fixed by call structure, not by
// issue content.
func TestAndThen_IssueOrderProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)

	properties.Property("AndThen orders a's issues before b's", prop.ForAll(
		func(aIssues, bIssues []Issue) bool {
			a := Outcome[struct{}]{issues: append([]Issue(nil), aIssues...), valid: true}
			out := AndThen(a, func(struct{}) Outcome[struct{}] {
				return Outcome[struct{}]{issues: append([]Issue(nil), bIssues...), valid: true}
			})

			if len(out.issues) != len(aIssues)+len(bIssues) {
				return false
			}
			for i, issue := range aIssues {
				if out.issues[i] != issue {
					return false
				}
			}
			for i, issue := range bIssues {
				if out.issues[len(aIssues)+i] != issue {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genIssue()),
		gen.SliceOf(genIssue()),
	))

	properties.TestingRun(t)
}
