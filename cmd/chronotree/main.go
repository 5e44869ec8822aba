package main

import "github.com/chronotree/chronotree/cli"

func main() {
	cli.Execute()
}
