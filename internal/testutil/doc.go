// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures and helpers shared by the package tests.
//
// SampleArchive is a small project that touches every resource kind and every
// reference field. The Must* helpers fail the test immediately instead of
// returning errors, and Snapshot captures a directory tree for byte-for-byte
// comparison.
package testutil
