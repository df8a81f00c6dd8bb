// Package otel exports engine counters through OpenTelemetry observable
// instruments.
package otel
