// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for PGO profile generation.
// They cover the hot paths of a conversion:
//   - container encoding and decoding per compression
//   - decomposing an archive into files
//   - composing a directory back into an archive
//   - configuration loading and CUE validation
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
