// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for per-test behavior overrides and
// falls back to a small in-memory default implementation, so test files
// share one set of mocks instead of redefining them inline.
package mocks
