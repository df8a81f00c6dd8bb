// Package internaldefs holds the metric name table shared by the
// Prometheus and OTel exporters. It is not part of the public API.
package internaldefs
