// SPDX-License-Identifier: MPL-2.0

// Package issue provides the error vocabulary of gmksplit.
//
// ConvertError carries one of a fixed set of Kinds (invalid name, path
// collision, malformed data, ...) together with the resource it concerns.
// ActionableError wraps any error with an operation, a resource and remediation
// suggestions for the CLI, and the issue catalog holds Markdown guidance per
// Kind that is rendered in verbose mode.
package issue
