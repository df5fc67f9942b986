// SPDX-License-Identifier: MPL-2.0

// Package gmfile is the in-memory model of one game project archive.
//
// An Archive holds an ordered list of resources per Kind, the flat constant
// list, the extension package names, the included files and the game
// information. Resources refer to each other through Ref values, which hold
// either a raw identifier (as decoded from a container) or the target resource
// itself (as bound during composition). A bound Ref always reports the
// target's current identifier, so renumbering a resource updates every
// reference to it.
package gmfile
