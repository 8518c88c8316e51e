package dsl

import (
	"fmt"
	"maps"
	"time"

	"github.com/aretw0/probe/pkg/scenario"
)

// Builder manages the scenario construction.
type Builder struct {
	*Steps

	name     string
	drivers  []string
	config   map[string]string
	settings map[string]any
}

// New creates a new scenario builder.
func New(name string) *Builder {
	return &Builder{
		Steps:    &Steps{},
		name:     name,
		config:   make(map[string]string),
		settings: make(map[string]any),
	}
}

// Drivers appends the drivers the scenario runs on.
func (b *Builder) Drivers(names ...string) *Builder {
	b.drivers = append(b.drivers, names...)
	return b
}

// Config sets a default configuration value.
func (b *Builder) Config(key, value string) *Builder {
	b.config[key] = value
	return b
}

// Wait sets the default deadline of waiting steps.
func (b *Builder) Wait(d time.Duration) *Builder {
	b.settings["wait"] = d.String()
	return b
}

// Interval sets the default polling interval of waiting steps.
func (b *Builder) Interval(d time.Duration) *Builder {
	b.settings["interval"] = d.String()
	return b
}

// Document returns the scenario as the generic document a scenario file
// unmarshals to.
func (b *Builder) Document() map[string]any {
	doc := map[string]any{
		"name":    b.name,
		"drivers": append([]string(nil), b.drivers...),
		"steps":   b.Steps.items(),
	}
	if len(b.config) > 0 {
		doc["config"] = maps.Clone(b.config)
	}
	if len(b.settings) > 0 {
		doc["settings"] = maps.Clone(b.settings)
	}
	return doc
}

// Build validates and compiles the scenario.
func (b *Builder) Build() (*scenario.Scenario, error) {
	sc, err := scenario.Decode(b.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %s: %w", b.name, err)
	}
	return sc, nil
}
