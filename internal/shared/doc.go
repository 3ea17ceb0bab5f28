// Package shared holds code used across packages that belongs to no single
// layer. Today that is only testutil: log capture and raw report fixtures
// for tests.
package shared
