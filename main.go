package main

import (
	"os"

	"github.com/Rakhulsr/go-foodie/app/cmd"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "serve")
	}
	cmd.RunCli(args)
}
