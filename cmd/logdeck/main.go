package main

import "github.com/pitwall/logdeck/internal/cli"

func main() {
	cli.Execute()
}
