package validation

import "testing"

func loc(attr string) Location {
	return Location{EntityKind: "Test", EntityID: "T1", Attribute: attr}
}

func TestMustBe(t *testing.T) {
	tests := []struct {
		name      string
		pred      bool
		sev       Severity
		wantValid bool
		wantCount int
	}{
		{"passes", true, Error, true, 0},
		{"fails error", false, Error, false, 1},
		{"fails fatal", false, Fatal, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := MustBe(tt.pred, tt.sev, loc("x"), "boom")
			if o.IsValid() != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", o.IsValid(), tt.wantValid)
			}
			if len(o.Issues()) != tt.wantCount {
				t.Errorf("len(Issues()) = %d, want %d", len(o.Issues()), tt.wantCount)
			}
		})
	}
}

func TestShouldBeNeverInvalidates(t *testing.T) {
	o := ShouldBe(false, loc("insurance"), "insurance missing")
	if !o.IsValid() {
		t.Fatal("ShouldBe failure must stay Valid")
	}
	if len(o.Issues()) != 1 || o.Issues()[0].Severity != Warning {
		t.Fatalf("expected one Warning issue, got %+v", o.Issues())
	}
}

func TestCouldBeNeverInvalidates(t *testing.T) {
	o := CouldBe(false, loc("icdO3T"), "icdO3T missing")
	if !o.IsValid() {
		t.Fatal("CouldBe failure must stay Valid")
	}
	if len(o.Issues()) != 1 || o.Issues()[0].Severity != Info {
		t.Fatalf("expected one Info issue, got %+v", o.Issues())
	}
}

func TestInSet(t *testing.T) {
	refs := map[string]struct{}{"D1": {}}
	if !InSet("D1", refs, loc("diagnosis"), "missing").IsValid() {
		t.Fatal("expected member to validate")
	}
	o := InSet("D2", refs, loc("diagnosis"), "dangling reference")
	if o.IsValid() {
		t.Fatal("expected non-member to fail")
	}
	if o.Issues()[0].Severity != Fatal {
		t.Fatalf("expected Fatal, got %v", o.Issues()[0].Severity)
	}
}

func TestCombineOrderPreserved(t *testing.T) {
	a := MustBe(false, Error, loc("a"), "a failed")
	b := ShouldBe(false, loc("b"), "b missing")
	c := CouldBe(false, loc("c"), "c missing")
	combined := Combine(a, b, c)
	if combined.IsValid() {
		t.Fatal("expected combined outcome invalid due to a")
	}
	issues := combined.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	wantAttrs := []string{"a", "b", "c"}
	for i, attr := range wantAttrs {
		if issues[i].Location.Attribute != attr {
			t.Errorf("issue[%d].Attribute = %q, want %q", i, issues[i].Location.Attribute, attr)
		}
	}
}

func TestAndThenShortCircuitsOnInvalid(t *testing.T) {
	called := false
	a := Invalid[string](NewIssue(Fatal, loc("ref"), "dangling"))
	result := AndThen(a, func(s string) Outcome[int] {
		called = true
		return Valid(len(s))
	})
	if called {
		t.Fatal("AndThen must not run next() when prerequisite failed")
	}
	if result.IsValid() {
		t.Fatal("expected invalid result")
	}
	if len(result.Issues()) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(result.Issues()))
	}
}

func TestAndThenRunsAndAccumulatesInOrder(t *testing.T) {
	a := Valid("P1").WithIssues(NewIssue(Info, loc("a"), "left"))
	result := AndThen(a, func(s string) Outcome[int] {
		return Valid(len(s)).WithIssues(NewIssue(Warning, loc("b"), "right"))
	})
	if !result.IsValid() {
		t.Fatal("expected valid result")
	}
	issues := result.Issues()
	if len(issues) != 2 || issues[0].Location.Attribute != "a" || issues[1].Location.Attribute != "b" {
		t.Fatalf("expected [a, b] order, got %+v", issues)
	}
}

func TestOrElsePrefersFirstSuccess(t *testing.T) {
	a := Valid(1)
	b := Invalid[int](NewIssue(Error, loc("x"), "unused"))
	result := OrElse(a, b)
	if !result.IsValid() || result.Value() != 1 {
		t.Fatalf("expected a to win, got %+v", result)
	}
}

func TestOrElseConcatenatesOnDoubleFailure(t *testing.T) {
	a := Invalid[int](NewIssue(Error, loc("a"), "a failed"))
	b := Invalid[int](NewIssue(Error, loc("b"), "b failed"))
	result := OrElse(a, b)
	if result.IsValid() {
		t.Fatal("expected invalid")
	}
	if len(result.Issues()) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(result.Issues()))
	}
}

func TestValidateEachPreservesElementOrder(t *testing.T) {
	items := []int{1, -1, 2, -2}
	outcome := ValidateEach(items, func(i int) Outcome[int] {
		if i < 0 {
			return Invalid[int](NewIssue(Error, loc("item"), "negative"))
		}
		return Valid(i)
	})
	if outcome.IsValid() {
		t.Fatal("expected invalid due to negative items")
	}
	if len(outcome.Issues()) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(outcome.Issues()))
	}
	if got := outcome.Value(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected surviving values [1 2], got %v", got)
	}
}
