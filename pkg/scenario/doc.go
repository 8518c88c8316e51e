/*
Package scenario loads browser checks written as YAML files and compiles them
into probe actions.

A scenario names the drivers to run against, optional timing settings and
default configuration, and a list of steps:

	name: login
	settings: { wait: 5s, interval: 100ms }
	config: { base_url: "http://localhost:8080" }
	drivers: [html]
	steps:
	  - context: open home
	    steps:
	      - nav: "{{base_url}}/"
	      - expect_text: { selector: h1, text: Welcome }
	  - type: { selector: "#user", text: alice }
	  - click: "#login"
	  - wait_exists: { selector: .dashboard, timeout: 3s }
	  - info: logged in

Steps run in order and stop at the first failure, except inside a collect
block, which runs all of its children and reports every failure. Text
arguments may reference configuration as {{key}}; configuration given to the
engine overrides the scenario's defaults.
*/
package scenario
