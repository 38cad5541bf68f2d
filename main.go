// Package main is the entry point for the scorekeeper CLI, which keeps score
// for battle-royale esports tournaments: points, standings, MVPs and exports.
package main

import "github.com/pable/go-scorekeeper/cmd"

func main() {
	cmd.Execute()
}
