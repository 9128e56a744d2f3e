package domain

import "testing"

func TestStrictTransitionsClosure(t *testing.T) {
	table := StrictTransitions()

	allowed := map[[2]ProcessStatus]bool{}
	for from, targets := range table {
		for _, to := range targets {
			allowed[[2]ProcessStatus{from, to}] = true
		}
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			got := table.CanTransition(from, to)
			want := allowed[[2]ProcessStatus{from, to}]
			if got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}

			err := table.Validate(from, to)
			if want && err != nil {
				t.Errorf("Validate(%s, %s) unexpected error: %v", from, to, err)
			}
			if !want && err == nil {
				t.Errorf("Validate(%s, %s) expected error, got nil", from, to)
			}
		}
	}
}

func TestStrictTransitionsTerminalAndDeadEnds(t *testing.T) {
	table := StrictTransitions()

	for _, to := range AllStatuses() {
		if table.CanTransition(StatusClosed, to) {
			t.Errorf("CLOSED must be terminal, but allows transition to %s", to)
		}
	}

	for _, from := range []ProcessStatus{StatusApproved, StatusRejected} {
		for _, to := range AllStatuses() {
			got := table.CanTransition(from, to)
			want := to == StatusClosed
			if got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestPermissiveTransitionsAllowEverything(t *testing.T) {
	table := PermissiveTransitions()

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			if !table.CanTransition(from, to) {
				t.Errorf("permissive table must allow %s to %s", from, to)
			}
		}
	}

	// Self-transitions included.
	if !table.CanTransition(StatusClosed, StatusClosed) {
		t.Error("permissive table must allow CLOSED to CLOSED")
	}
}

func TestValidateNamesBothStates(t *testing.T) {
	err := StrictTransitions().Validate(StatusApproved, StatusVerification)
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()
	if want := "APPROVED"; !contains(msg, want) {
		t.Errorf("error %q does not name %s", msg, want)
	}
	if want := "VERIFICATION"; !contains(msg, want) {
		t.Errorf("error %q does not name %s", msg, want)
	}
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	if err := PermissiveTransitions().Validate(StatusSubmitted, "SHIPPED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestTableFor(t *testing.T) {
	if TableFor(true).CanTransition(StatusClosed, StatusSubmitted) {
		t.Error("strict table selected but CLOSED is not terminal")
	}
	if !TableFor(false).CanTransition(StatusClosed, StatusSubmitted) {
		t.Error("permissive table selected but transition denied")
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
