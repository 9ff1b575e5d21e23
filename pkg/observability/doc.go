/*
Package observability provides tools for monitoring the exit-intent engine.

It includes Prometheus metrics fed by lifecycle hooks, structured-logging hooks for
auditing triggers and title changes, and ChainHooks to compose several hook sets.
*/
package observability
