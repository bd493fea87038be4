package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
)

func handleCherryPick() {
	cmd := flag.NewFlagSet("cherry-pick", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 1 {
		usage("cherry-pick <commit>")
	}

	repo, _ := openRepo()
	author, email := currentIdentity(repo)

	result, err := repo.CherryPick(args[0], author, email)
	if err != nil {
		fatal(err)
	}

	color.Green("[%s %s] %s", branchLabel(result.Branch), result.Hash[:12], result.Message)
}
