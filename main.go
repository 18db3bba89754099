package main

import "github.com/agentic-research/resgen/cmd"

func main() {
	cmd.Execute()
}
