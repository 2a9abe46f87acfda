package main

import "github.com/HariniKartheeswaran/queuectl/cli"

func main() {
	cli.Execute()
}
