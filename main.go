package main

import "github.com/aaearon/copilot-costs/cmd"

func main() {
	cmd.Execute()
}
