package main

import (
	"flag"
	"os"

	"github.com/cellvcs/cellvcs"
	"github.com/fatih/color"
)

func handleInit() {
	cmd := flag.NewFlagSet("init", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	wb := openWorkbook()
	if _, err := cellvcs.Init(root(), wb); err != nil {
		fatal(err)
	}

	color.Green("Initialized empty %s repository in %s/", vcsName, cellvcs.VCSDirName)
}
