package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func handleCommit() {
	cmd := flag.NewFlagSet("commit", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 1 {
		usage("commit <message>")
	}
	message := args[0]

	repo, _ := openRepo()
	author, email := currentIdentity(repo)

	result, err := repo.Commit(message, author, email)
	if err != nil {
		fatal(err)
	}

	color.Green("[%s %s] %s", branchLabel(result.Branch), result.Hash[:12], message)
	if result.ParentHash == "" {
		fmt.Println("root commit")
	}
}

func branchLabel(branch string) string {
	if branch == "" {
		return "detached"
	}
	return branch
}
