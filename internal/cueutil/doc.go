// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// The flow is always the same: compile the schema, compile the user data,
// unify the data with one schema definition, then validate and decode.
// Errors name the offending field as a JSON-like path such as
// "compression" or "limits[0].size".
package cueutil
