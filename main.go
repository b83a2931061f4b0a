package main

import "HostFacts/pkg/commands"

func main() {
	commands.Execute()
}
