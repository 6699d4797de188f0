// Package diagnostics inspects host resources before solver processes are
// launched.
//
// Checks only produce warnings. A run is never refused because the host
// looks busy; the per-process caps applied at spawn time are the hard limit.
package diagnostics
