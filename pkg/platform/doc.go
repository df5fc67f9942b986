// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// Project directories are meant to be checked out on any host, so names that
// only one operating system rejects are treated as unusable everywhere.
package platform
