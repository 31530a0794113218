package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/emberlang/emberc/internal/cerrors"
)

// Validator validates a Config and fills in any zero-valued knobs with
// system-appropriate defaults.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and applies smart defaults.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return cerrors.NewConfigError("project", "", err)
	}
	if err := v.validateAssemblies(cfg.Assemblies); err != nil {
		return cerrors.NewConfigError("assemblies", "", err)
	}
	if err := v.validateDriver(&cfg.Driver); err != nil {
		return cerrors.NewConfigError("driver", "", err)
	}
	if err := v.validateWatch(&cfg.Watch); err != nil {
		return cerrors.NewConfigError("watch", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateAssemblies(assemblies []AssemblyConfig) error {
	seen := make(map[string]bool, len(assemblies))
	for _, a := range assemblies {
		if a.Name == "" {
			return errors.New("assembly name cannot be empty")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate assembly name %q", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func (v *Validator) validateDriver(d *Driver) error {
	if d.ParallelFileWorkers < 0 {
		return fmt.Errorf("ParallelFileWorkers cannot be negative, got %d", d.ParallelFileWorkers)
	}
	if d.IndexingTimeoutSec < 0 {
		return fmt.Errorf("IndexingTimeoutSec cannot be negative, got %d", d.IndexingTimeoutSec)
	}
	return nil
}

func (v *Validator) validateWatch(w *Watch) error {
	if w.DebounceMs < 0 {
		return fmt.Errorf("DebounceMs cannot be negative, got %d", w.DebounceMs)
	}
	return nil
}

// setSmartDefaults fills zero-valued knobs using system capabilities,
// leaving cores-1 headroom the way the teacher's indexing worker pool
// sizing does.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Driver.ParallelFileWorkers == 0 {
		cfg.Driver.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Driver.IndexingTimeoutSec == 0 {
		cfg.Driver.IndexingTimeoutSec = 120
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.ember"}
	}
}

// ValidateConfig is a convenience function for one-shot validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
