/*
Package observability exposes probe runs as Prometheus metrics.

Metrics are fed from two places: lifecycle hooks count runs and time them,
and a sink wrapper counts log records by kind as they stream out of a run.
*/
package observability
