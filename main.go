package main

import "github.com/agentic-research/trackedit/cmd"

func main() {
	cmd.Execute()
}
