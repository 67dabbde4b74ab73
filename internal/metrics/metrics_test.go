package metrics

import (
	"errors"
	"fmt"
	"testing"

	"cognicard/internal/domain"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"duplicate name", domain.NewDuplicateNameError("folder", "Bio", "f1"), "conflict"},
		{"wrapped validation", fmt.Errorf("%w: empty", domain.ErrValidation), "invalid"},
		{"not found", fmt.Errorf("deck x: %w", domain.ErrNotFound), "not_found"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordMutation("folder", "create", nil)
	m.RecordImport(3, 1)
	m.RecordRequest("GET", "/api/tree", 200, 0)
	m.RecordRateLimited()
}

func TestNewMetricsReturnsSingleton(t *testing.T) {
	if NewMetrics() != NewMetrics() {
		t.Fatal("NewMetrics() returned different instances")
	}
}
