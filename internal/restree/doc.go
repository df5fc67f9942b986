// SPDX-License-Identifier: MPL-2.0

// Package restree provides the ordered, named resource tree that mirrors the
// archive's folder structure.
//
// The same Node type serves both directions. During decomposition the tree
// comes from the archive (or from Default when the archive carries none) and
// every leaf is bound to a resource. During composition FromDirectory builds
// the tree from a directory walk and every leaf carries the path of its XML
// file until the orchestrator binds the parsed resource to it.
package restree
