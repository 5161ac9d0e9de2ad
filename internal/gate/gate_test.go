package gate

import (
	"testing"

	"github.com/mxcd/bumper/internal/resolver"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name             string
		changed          bool
		hasManualCommits bool
		existingPR       bool
		expected         ActionPlan
	}{
		{
			name:     "no change means no-op",
			changed:  false,
			expected: NoOp,
		},
		{
			name:       "no change wins over existing PR",
			changed:    false,
			existingPR: true,
			expected:   NoOp,
		},
		{
			name:             "no change wins over manual commits",
			changed:          false,
			hasManualCommits: true,
			expected:         NoOp,
		},
		{
			name:             "manual commits block update without PR",
			changed:          true,
			hasManualCommits: true,
			expected:         NoOp,
		},
		{
			name:             "manual commits block update with PR",
			changed:          true,
			hasManualCommits: true,
			existingPR:       true,
			expected:         NoOp,
		},
		{
			name:       "existing PR gets updated",
			changed:    true,
			existingPR: true,
			expected:   UpdateExistingPR,
		},
		{
			name:     "fresh update opens a PR",
			changed:  true,
			expected: CreateNewPR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := &resolver.Outcome{
				Dependency: "test-dependency",
				Original:   "v1.2.0",
				Latest:     "v1.3.0",
				Changed:    tt.changed,
			}

			plan := Decide(outcome, BranchState{HasManualCommits: tt.hasManualCommits}, tt.existingPR)
			if plan != tt.expected {
				t.Errorf("Expected plan %s, got %s", tt.expected, plan)
			}
		})
	}
}

func TestDecide_Idempotent(t *testing.T) {
	outcome := &resolver.Outcome{Dependency: "test-dependency", Original: "v1.0.0", Latest: "v2.0.0", Changed: true}

	first := Decide(outcome, BranchState{}, true)
	for i := 0; i < 5; i++ {
		if plan := Decide(outcome, BranchState{}, true); plan != first {
			t.Fatalf("Decide is not idempotent: got %s, first run %s", plan, first)
		}
	}
}

func TestActionPlan_String(t *testing.T) {
	tests := []struct {
		plan     ActionPlan
		expected string
	}{
		{NoOp, "no-op"},
		{CreateNewPR, "create-pr"},
		{UpdateExistingPR, "update-pr"},
	}

	for _, tt := range tests {
		if got := tt.plan.String(); got != tt.expected {
			t.Errorf("ActionPlan(%d).String() = %q, expected %q", tt.plan, got, tt.expected)
		}
	}
}
