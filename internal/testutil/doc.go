// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test
// on setup errors, reducing boilerplate in table-driven tests.
package testutil
