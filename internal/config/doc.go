// SPDX-License-Identifier: MPL-2.0

// Package config loads the gmksplit defaults using Viper with CUE as the file
// format.
//
// The file lives at $XDG_CONFIG_HOME/gmksplit/config.cue on Linux,
// ~/Library/Application Support/gmksplit/config.cue on macOS and
// %APPDATA%\gmksplit\config.cue on Windows. A config.cue in the working
// directory is used when the platform file does not exist. Every value can be
// overridden through a GMKSPLIT_ environment variable, and command-line flags
// override both.
package config
