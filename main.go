// SPDX-License-Identifier: MPL-2.0

// gmksplit converts game archive files to directory trees and back.
package main

import cmd "github.com/gmksplit/gmksplit/cmd/gmksplit"

func main() {
	cmd.Execute()
}
