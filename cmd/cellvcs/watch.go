package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cellvcs/cellvcs"
	"github.com/cellvcs/cellvcs/internal/watch"
	"github.com/cellvcs/cellvcs/internal/workbook"
	"github.com/fatih/color"
)

// handleWatch runs the peripheral auto-stage watcher: it watches the CLI's
// workbook file and re-stages the given cell whenever that file changes,
// until interrupted. This is a supplemented feature (spec.md's core is
// called explicitly via stage(); this gives it a push-driven front end).
func handleWatch() {
	cmd := flag.NewFlagSet("watch", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) != 4 {
		usage("watch <workbook> <sheet> <row-letters> <col>")
	}

	workbookID := args[0]
	sheet, err := strconv.Atoi(args[1])
	if err != nil {
		fatal(err)
	}
	rowLetters := args[2]
	col, err := strconv.Atoi(args[3])
	if err != nil {
		fatal(err)
	}

	openRepo() // fail early if there is no repository here

	w, err := watch.New(root(), func(path string) {
		if path != workbookPath() {
			return
		}
		// Reopen the workbook file so Stage reads the value just written.
		wb, openErr := workbook.OpenFileStore(workbookPath())
		if openErr != nil {
			color.Red("auto-stage failed: %v", openErr)
			return
		}
		repo, openErr := cellvcs.Open(root(), wb)
		if openErr != nil {
			color.Red("auto-stage failed: %v", openErr)
			return
		}
		result, stageErr := repo.Stage(workbookID, sheet, rowLetters, col)
		if stageErr != nil {
			color.Red("auto-stage failed: %v", stageErr)
			return
		}
		if result.Outcome.String() != "unchanged" {
			color.Cyan("auto-staged %s: %s", result.Key, result.Outcome)
		}
	})
	if err != nil {
		fatal(err)
	}
	defer w.Close()

	go w.Run()

	color.Yellow("watching %s for changes to %s sheet %d %s%d (ctrl-C to stop)", workbookPath(), workbookID, sheet, rowLetters, col)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
