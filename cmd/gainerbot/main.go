package main

import "github.com/tokennotifs/gainerbot/internal/cli"

func main() {
	cli.Execute()
}
