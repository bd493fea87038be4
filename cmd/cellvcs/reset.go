package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
)

func handleReset() {
	cmd := flag.NewFlagSet("reset", flag.ExitOnError)
	hard := cmd.Bool("hard", false, "rewrite the workbook store and index to match target")
	cmd.Bool("soft", true, "only move the branch ref (default)")
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 1 {
		usage("reset [--hard|--soft] <commit>")
	}
	target := args[0]

	repo, _ := openRepo()

	if *hard {
		result, err := repo.HardReset(target)
		if err != nil {
			fatal(err)
		}
		color.Green("HEAD is now at %s (%d cell(s) restored, %d failed)", result.TargetHash[:12], result.EntryCount, result.FailedWrites)
		return
	}

	// Default to soft when --hard is not given: the gentler operation.
	result, err := repo.SoftReset(target)
	if err != nil {
		fatal(err)
	}
	color.Yellow("HEAD is now at %s (%d path(s) would change)", result.TargetHash[:12], len(result.ChangedPaths))
}
