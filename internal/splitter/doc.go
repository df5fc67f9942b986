// SPDX-License-Identifier: MPL-2.0

// Package splitter converts between an archive file and a project directory.
//
// Decompose writes every resource of an archive as its own file below a new
// directory, mirroring the archive's resource tree as folders. Compose reads
// such a directory back, resolves references by name, reconciles identifiers
// under the configured policy and writes a new archive file.
//
// Both directions run synchronously and stop at the first error. The context
// is checked between resource kinds.
package splitter
