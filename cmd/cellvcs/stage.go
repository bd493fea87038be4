package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
)

func handleStage() {
	cmd := flag.NewFlagSet("stage", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 4 {
		usage("stage <workbook> <sheet> <row-letters> <col>")
	}

	workbookID := args[0]
	sheet, err := strconv.Atoi(args[1])
	if err != nil {
		fatal(fmt.Errorf("sheet must be a number: %w", err))
	}
	rowLetters := args[2]
	col, err := strconv.Atoi(args[3])
	if err != nil {
		fatal(fmt.Errorf("col must be a number: %w", err))
	}

	repo, _ := openRepo()
	result, err := repo.Stage(workbookID, sheet, rowLetters, col)
	if err != nil {
		fatal(err)
	}

	switch result.Outcome.String() {
	case "unchanged":
		color.Yellow("%s: unchanged (%s)", result.Key, result.BlobHash[:12])
	default:
		color.Green("%s: %s (%s)", result.Key, result.Outcome, result.BlobHash[:12])
	}
}
