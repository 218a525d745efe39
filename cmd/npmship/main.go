package main

import "npmship/internal/cli"

func main() {
	cli.Execute()
}
