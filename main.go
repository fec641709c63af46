// SPDX-License-Identifier: MPL-2.0

package main

import cmd "plugrun/cmd/plugrun"

func main() {
	cmd.Execute()
}
