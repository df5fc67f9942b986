// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// WindowsReservedNames are device names Windows refuses as file names, with
// or without an extension.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name is a reserved device name.
// Everything from the first dot on is ignored, so "nul.tar.gz" is reserved,
// and trailing spaces before the dot are trimmed the way Windows does.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return WindowsReservedNames[strings.ToUpper(strings.TrimRight(base, " "))]
}
