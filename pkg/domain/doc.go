/*
Package domain contains the core models threaded through every probe run.

It defines the run state, the structured log tree, the failure model and the
driver port. The package is kept pure and free of I/O so that the combinator
library, the adapters and the renderers can all depend on it without cycles.

# Key Entities

  - RunState: the immutable record a step receives and returns (trail, log, errors, driver, settings, config).
  - Log: the nested tree of context, info, warn and error entries.
  - Failure: an error annotated with the context trail it was raised under.
  - Result: a value-or-error used at the boundaries of a run.
  - Driver / Element: the port a browser-like backend implements.
*/
package domain
