package main

import "github.com/panyam/aescript/cmd/aescript/commands"

func main() {
	commands.Execute()
}
