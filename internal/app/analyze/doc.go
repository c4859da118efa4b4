// SPDX-License-Identifier: MPL-2.0

// Package analyze runs the verification pipeline shared by the CLI and the
// test harness: load declarations, obtain edges from a file or by scanning Go
// packages, verify, and filter through a baseline.
package analyze
