/*
Package probe is a library for writing browser end-to-end checks as composable, replayable steps.

A Step is a deferred computation over a run state. The state carries a context
trail, a structured log tree, the accumulated failures, the driver in scope,
settings and configuration. Steps are combined with a small set of
combinators and executed by an Engine, which reports the resulting value and
state.

# Concept

Failures are values, not panics. A failing step records a Failure, annotated
with the labels of the enclosing contexts, and the run carries on according to
the combinator in use: Bind keeps going, AndThen and Sequence stop, Or
restores the state and tries an alternative, Collect runs everything and
gathers the errors.

# Key Features

  - Replayable: building a step has no effect, running it twice runs it twice.
  - Scoped: Context, Use and WithDriver always undo what they set up.
  - Observable: every log entry reaches a LogSink as it is produced.
  - Multi-driver: WithDrivers runs one check against several drivers and reports all failures.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/probe"
		"github.com/aretw0/probe/pkg/adapters/htmldriver"
		"github.com/aretw0/probe/pkg/drivers"
	)

	func main() {
		registry := drivers.NewRegistry()
		registry.Register("html", htmldriver.Constructor())

		eng, err := probe.New(probe.WithDriverFactory(registry))
		if err != nil {
			log.Fatal(err)
		}

		check := probe.Context("home page", probe.Then(
			probe.Nav[probe.NoEnv]("https://example.com"),
			probe.HasText[probe.NoEnv]("h1", "Example Domain"),
		))

		report, err := probe.Run(context.Background(), eng, probe.WithDrivers(check, "html"))
		if err != nil {
			log.Fatal(err)
		}
		if err := report.Err(); err != nil {
			log.Fatal(err)
		}
	}
*/
package probe
