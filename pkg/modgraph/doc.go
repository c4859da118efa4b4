// SPDX-License-Identifier: MPL-2.0

// Package modgraph models the declared modules of a modular monolith and
// verifies observed dependency edges against their declared boundaries.
//
// A [Graph] is built once from explicit [Module] declarations with
// [NewGraph] and is immutable afterwards. Construction rejects malformed
// declarations (invalid or duplicate names, unknown visibilities, allow-list
// entries that name modules absent from the graph) so that a Graph value is
// always well formed.
//
// [Verify] compares a list of observed [Edge] values against the graph:
//
//   - edges inside a single module are ignored
//   - edges into an open module are always allowed
//   - edges into an encapsulated module are allowed only when the target is
//     listed in the source module's allowed dependencies
//   - edges naming a module that is not in the graph are reported as
//     [UnknownModuleReference] values, separate from boundary violations
//
// Every problem is collected into a [ValidationResult]; an empty result is
// success. Verify reads nothing but its arguments and never mutates them, so
// it may be called concurrently.
//
// Use [WithCycleDetection] to also report dependency cycles between modules.
package modgraph
