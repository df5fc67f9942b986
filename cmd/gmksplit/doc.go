// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the gmksplit command line.
//
// The root command carries the global --verbose and --config flags. The
// convert command picks the direction from which of its two paths names an
// archive file, and the config command inspects and creates the
// configuration file.
package cmd
