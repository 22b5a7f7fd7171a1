package main

import (
	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/cmd"
)

func main() {
	cli.Execute(cmd.NewRootCmd())
}
