// SPDX-License-Identifier: MPL-2.0

package dispatch

import "strings"

// ExtractSubArguments strips a command's own name out of the full argument
// string and tokenizes the remainder:
//
//  1. The FIRST occurrence of commandName is removed, wherever it appears;
//     a command name that reappears later in the arguments stays put.
//  2. The remainder is trimmed of leading/trailing whitespace.
//  3. The remainder is split on single spaces. Consecutive spaces inside the
//     remainder produce empty tokens; they are not collapsed.
//  4. An empty remainder yields an empty slice.
//
// Pure function, no side effects.
func ExtractSubArguments(fullArguments, commandName string) []string {
	remainder := strings.Replace(fullArguments, commandName, "", 1)
	remainder = strings.TrimSpace(remainder)

	tokens := strings.Split(remainder, " ")
	if len(tokens) == 1 && tokens[0] == "" {
		return []string{}
	}

	return tokens
}
