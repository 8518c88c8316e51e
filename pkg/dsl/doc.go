/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing probe scenarios.

It builds the same documents as scenario files, using a fluent builder pattern instead of YAML.
This is useful for generating checks from code, for tests, and for IDE autocompletion.

Example usage:

	b := dsl.New("search").Drivers("html").Config("base", "http://localhost:8080")
	b.Nav("{{base}}/").
		Context("form", func(s *dsl.Steps) {
			s.Type("#q", "chair").Click("#go")
		}).
		WaitExists("#results").
		ExpectText("#query", "chair")

	sc, err := b.Build()
	// ... run sc.Action() with probe.Run
*/
package dsl
