package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func handleBranch() {
	cmd := flag.NewFlagSet("branch", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	repo, _ := openRepo()
	args := cmd.Args()

	if len(args) == 1 {
		if err := repo.CreateBranch(args[0]); err != nil {
			fatal(err)
		}
		return
	}

	names, err := repo.Branches()
	if err != nil {
		fatal(err)
	}

	current, err := repo.CurrentBranch()
	if err != nil {
		current = ""
	}

	for _, name := range names {
		if name == current {
			color.Green("* %s", name)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}
