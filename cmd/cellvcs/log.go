package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/cellvcs/cellvcs"
	"github.com/pterm/pterm"
)

func handleLog() {
	cmd := flag.NewFlagSet("log", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	limit := cellvcs.MaxHistoryLimit
	if args := cmd.Args(); len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fatal(err)
		}
		limit = n
	}

	repo, _ := openRepo()
	history, err := repo.History(limit)
	if err != nil {
		fatal(err)
	}

	if len(history) == 0 {
		pterm.Info.Println("no commits yet")
		return
	}

	table := pterm.TableData{{"commit", "parent", "tree", "message"}}
	for _, c := range history {
		parent := c.ParentHash
		if parent == "" {
			parent = "-"
		} else {
			parent = parent[:12]
		}
		table = append(table, []string{c.Hash[:12], parent, c.TreeHash[:12], c.Message})
	}

	pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
