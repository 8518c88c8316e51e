package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
)

// Settings override the engine's timing defaults for one scenario.
type Settings struct {
	Wait     time.Duration `mapstructure:"wait" validate:"gte=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// Scenario is a parsed and validated scenario file.
type Scenario struct {
	Name     string            `mapstructure:"name" validate:"required"`
	Settings Settings          `mapstructure:"settings"`
	Config   map[string]string `mapstructure:"config"`
	Drivers  []string          `mapstructure:"drivers" validate:"required,min=1,dive,required"`
	RawSteps []any             `mapstructure:"steps" validate:"required,min=1"`

	// Steps is the parsed form of RawSteps.
	Steps []Step `mapstructure:"-"`
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes, validates and compiles a scenario document. Every problem
// found is reported, joined into one error.
func Parse(data []byte) (*Scenario, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if raw == nil {
		return nil, &ValidationError{Path: "scenario", Message: "document is empty"}
	}
	return Decode(raw)
}

// Decode validates and compiles a scenario document that is already
// unmarshalled, such as one assembled in code.
func Decode(raw map[string]any) (*Scenario, error) {
	var sc Scenario
	if err := decode(raw, &sc); err != nil {
		return nil, &ValidationError{Path: "scenario", Message: err.Error(), Err: err}
	}
	if err := validate("scenario", &sc); err != nil {
		return nil, err
	}

	steps, errs := parseSteps("steps", sc.RawSteps)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sc.Steps = steps
	return &sc, nil
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// StepCount returns the number of steps, nested ones included.
func (s *Scenario) StepCount() int {
	var count func([]Step) int
	count = func(steps []Step) int {
		n := len(steps)
		for _, st := range steps {
			n += count(st.Children)
		}
		return n
	}
	return count(s.Steps)
}

// Action compiles the scenario. The scenario's config fills keys the run
// does not already have, its settings override the timing defaults, and the
// steps run once per driver inside a context named after the scenario.
func (s *Scenario) Action() probe.Action[probe.Unit] {
	defaults := s.Config
	setup := probe.Then(
		probe.Modify[E](func(st domain.RunState) domain.RunState {
			missing := make(map[string]string, len(defaults))
			for k, v := range defaults {
				if _, ok := st.ConfigValue(k); !ok {
					missing[k] = v
				}
			}
			return st.MergeConfig(missing)
		}),
		probe.WithTimeouts[E](s.Settings.Wait, s.Settings.Interval),
	)
	return probe.Context(s.Name, probe.Then(setup, probe.WithDrivers(compileAll(s.Steps), s.Drivers...)))
}
