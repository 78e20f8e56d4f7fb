package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/gcbaptista/go-doc-search/model"
)

func TestRunSettings_Validate(t *testing.T) {
	tests := []struct {
		name           string
		settings       RunSettings
		expectedErrors int
		description    string
	}{
		{
			name: "valid exact run",
			settings: RunSettings{
				Pattern:        "world",
				Mode:           model.ModeExact,
				Workers:        4,
				TasksPerWorker: 4,
			},
			expectedErrors: 0,
			description:    "A plain pattern with positive counts is valid",
		},
		{
			name: "empty pattern",
			settings: RunSettings{
				Pattern:        "   ",
				Mode:           model.ModeApproximate,
				Workers:        1,
				TasksPerWorker: 1,
			},
			expectedErrors: 1,
			description:    "Whitespace-only patterns are rejected",
		},
		{
			name: "multi-line pattern",
			settings: RunSettings{
				Pattern:        "hello\nworld",
				Mode:           model.ModeExact,
				Workers:        1,
				TasksPerWorker: 1,
			},
			expectedErrors: 1,
			description:    "Patterns cannot contain line breaks",
		},
		{
			name: "everything wrong",
			settings: RunSettings{
				Pattern:        "",
				Mode:           "fuzzy",
				Workers:        0,
				TasksPerWorker: -1,
				GatherTimeout:  -time.Second,
			},
			expectedErrors: 5,
			description:    "Each invalid field is reported separately",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.settings.Validate()
			if len(problems) != tt.expectedErrors {
				t.Errorf("%s: expected %d errors, got %d: %v", tt.description, tt.expectedErrors, len(problems), problems)
			}
		})
	}
}

func TestRunSettings_ApplyDefaults(t *testing.T) {
	settings := RunSettings{Pattern: "fox"}
	settings.ApplyDefaults()

	if settings.Mode != model.ModeExact {
		t.Errorf("Expected default mode %s, got %s", model.ModeExact, settings.Mode)
	}
	if settings.Workers != 1 {
		t.Errorf("Expected default workers 1, got %d", settings.Workers)
	}
	if settings.TasksPerWorker != runtime.NumCPU() {
		t.Errorf("Expected default tasks %d, got %d", runtime.NumCPU(), settings.TasksPerWorker)
	}
	if problems := settings.Validate(); len(problems) != 0 {
		t.Errorf("Expected defaults to validate, got %v", problems)
	}

	pattern := settings.SearchPattern()
	if pattern.Text != "fox" || pattern.Mode != model.ModeExact {
		t.Errorf("Unexpected pattern %+v", pattern)
	}

	// Explicit values survive
	explicit := RunSettings{Pattern: "fox", Mode: model.ModeApproximate, Workers: 3, TasksPerWorker: 2}
	explicit.ApplyDefaults()
	if explicit.Workers != 3 || explicit.TasksPerWorker != 2 || explicit.Mode != model.ModeApproximate {
		t.Errorf("ApplyDefaults overwrote explicit values: %+v", explicit)
	}
}

func TestServerSettings_ApplyDefaults(t *testing.T) {
	settings := ServerSettings{RequestsPerSecond: 5}
	settings.ApplyDefaults()

	if settings.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", settings.Port)
	}
	if settings.Burst != 6 {
		t.Errorf("Expected burst 6, got %d", settings.Burst)
	}
	if settings.MaxJobs != 2 {
		t.Errorf("Expected 2 max jobs, got %d", settings.MaxJobs)
	}
}
