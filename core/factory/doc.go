// Package factory provides a generic registry used to build pluggable modules
// (metrics sinks, plan log backends) from configuration.
package factory
