package validation

// MustBe asserts pred and, on failure, emits an issue at sev (Error or
// Fatal, per call site) and makes the outcome Invalid: its caller cannot
// rely on the checked value being present. Use for invariants that a
// dependent check genuinely cannot proceed without (cross-references,
// value-domain violations).
func MustBe(pred bool, sev Severity, loc Location, msg string) Outcome[struct{}] {
	if pred {
		return Valid(struct{}{})
	}
	return Invalid[struct{}](NewIssue(sev, loc, msg))
}

// ShouldBe asserts pred and, on failure, attaches a Warning but keeps the
// outcome Valid: a missing recommended attribute never blocks
// reconstruction of the value it annotates.
func ShouldBe(pred bool, loc Location, msg string) Outcome[struct{}] {
	o := Valid(struct{}{})
	if !pred {
		o = o.WithIssues(NewIssue(Warning, loc, msg))
	}
	return o
}

// CouldBe asserts pred and, on failure, attaches an Info but keeps the
// outcome Valid.
func CouldBe(pred bool, loc Location, msg string) Outcome[struct{}] {
	o := Valid(struct{}{})
	if !pred {
		o = o.WithIssues(NewIssue(Info, loc, msg))
	}
	return o
}

// InSet fails Fatal when candidate is not a member of refs — the shape of
// every intra-document cross-reference check in C4.
func InSet[K comparable](candidate K, refs map[K]struct{}, loc Location, msg string) Outcome[struct{}] {
	if _, ok := refs[candidate]; ok {
		return Valid(struct{}{})
	}
	return Invalid[struct{}](NewIssue(Fatal, loc, msg))
}

// MatchesEqual fails Fatal when candidate != ref, used for the
// Specimen/Diagnosis ICD-10 match requirement.
func MatchesEqual[K comparable](candidate, ref K, loc Location, msg string) Outcome[struct{}] {
	if candidate == ref {
		return Valid(struct{}{})
	}
	return Invalid[struct{}](NewIssue(Fatal, loc, msg))
}

// Combine concatenates the issues of several independent checks (left to
// right, input order preserved) and is Valid only if every one of them is.
func Combine(outcomes ...Outcome[struct{}]) Outcome[struct{}] {
	var issues []Issue
	valid := true
	for _, o := range outcomes {
		issues = append(issues, o.issues...)
		valid = valid && o.valid
	}
	return Outcome[struct{}]{issues: issues, valid: valid}
}

// Seal commits value as the outcome's payload, carrying over check's
// issues and validity. Used at the end of an entity validator to turn an
// accumulated struct{} check into the entity's own Outcome.
func Seal[T any](check Outcome[struct{}], value T) Outcome[T] {
	return Outcome[T]{value: value, issues: check.issues, valid: check.valid}
}

// AndThen runs next against a's value only if a succeeded; the combined
// outcome's issues are a's then next's, in that order.
func AndThen[A, B any](a Outcome[A], next func(A) Outcome[B]) Outcome[B] {
	if !a.valid {
		return Outcome[B]{issues: append([]Issue(nil), a.issues...), valid: false}
	}
	b := next(a.value)
	issues := make([]Issue, 0, len(a.issues)+len(b.issues))
	issues = append(issues, a.issues...)
	issues = append(issues, b.issues...)
	return Outcome[B]{value: b.value, issues: issues, valid: b.valid}
}

// OrElse succeeds if either a or b succeeds, preferring a; if both fail,
// their issues are concatenated a-then-b.
func OrElse[T any](a, b Outcome[T]) Outcome[T] {
	if a.valid {
		return a
	}
	if b.valid {
		return b
	}
	issues := make([]Issue, 0, len(a.issues)+len(b.issues))
	issues = append(issues, a.issues...)
	issues = append(issues, b.issues...)
	return Outcome[T]{issues: issues, valid: false}
}

// ValidateEach applies validate to every element of items, in order, and
// accumulates. The returned outcome's value is the subset of items that
// validated; it is overall Valid only when every element did.
func ValidateEach[T any](items []T, validate func(T) Outcome[T]) Outcome[[]T] {
	result := make([]T, 0, len(items))
	var issues []Issue
	valid := true
	for _, item := range items {
		o := validate(item)
		issues = append(issues, o.issues...)
		if o.valid {
			result = append(result, o.value)
		} else {
			valid = false
		}
	}
	return Outcome[[]T]{value: result, issues: issues, valid: valid}
}

// CollectIssues flattens the issues of several outcomes of possibly
// different types, in call order — used by the file validator to gather
// results from heterogeneous ValidateEach calls into one report.
func CollectIssues(sets ...[]Issue) []Issue {
	var all []Issue
	for _, s := range sets {
		all = append(all, s...)
	}
	return all
}
