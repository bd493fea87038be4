package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
)

func handleCheckout() {
	cmd := flag.NewFlagSet("checkout", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 1 {
		usage("checkout <branch|commit>")
	}

	repo, _ := openRepo()
	if err := repo.Checkout(args[0]); err != nil {
		fatal(err)
	}

	color.Green("switched to %s", args[0])
}
