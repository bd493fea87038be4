package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func handleStatus() {
	cmd := flag.NewFlagSet("status", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	repo, _ := openRepo()
	st, err := repo.Status()
	if err != nil {
		fatal(err)
	}

	if st.Detached {
		color.Yellow("HEAD detached at %s", shortOrNone(st.HeadCommit))
	} else {
		fmt.Printf("On branch %s\n", st.Branch)
	}

	if st.StagedCount == 0 {
		fmt.Println("nothing staged")
		return
	}

	color.Cyan("%d cell(s) staged:", st.StagedCount)
	for _, key := range st.StagedEntries {
		fmt.Printf("  %s\n", key)
	}
}

func shortOrNone(hash string) string {
	if hash == "" {
		return "(no commits yet)"
	}
	return hash[:12]
}
