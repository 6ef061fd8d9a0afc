package main

import "github.com/mcoot/pickupgames/internal/cli"

func main() {
	cli.Execute()
}
