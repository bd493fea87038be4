package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
)

func handleRevert() {
	cmd := flag.NewFlagSet("revert", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 1 {
		usage("revert <commit>")
	}

	repo, _ := openRepo()
	author, email := currentIdentity(repo)

	result, err := repo.Revert(args[0], author, email)
	if err != nil {
		fatal(err)
	}

	color.Green("[%s %s] %s", branchLabel(result.Branch), result.Hash[:12], result.Message)
}
