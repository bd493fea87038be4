// Command cellvcs is the CLI front end for the cellvcs core: cell-granular
// version control for spreadsheet workbooks. Command dispatch follows
// KDT2006-mygit/main.go's flag-per-subcommand shape; bodies are rewritten
// against the cellvcs.Repo API instead of direct filesystem calls.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cellvcs/cellvcs"
	"github.com/cellvcs/cellvcs/internal/workbook"
)

const vcsName = "cellvcs"

func main() {
	if len(os.Args) < 2 {
		fmt.Println("expected a valid command")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		handleInit()
	case "stage":
		handleStage()
	case "commit":
		handleCommit()
	case "log":
		handleLog()
	case "status":
		handleStatus()
	case "branch":
		handleBranch()
	case "checkout":
		handleCheckout()
	case "reset":
		handleReset()
	case "revert":
		handleRevert()
	case "cherry-pick":
		handleCherryPick()
	case "config":
		handleConfig()
	case "watch":
		handleWatch()
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// root is the repository root for this invocation: the current directory.
func root() string {
	dir, err := os.Getwd()
	if err != nil {
		fatal(err)
	}
	return dir
}

func workbookPath() string {
	return filepath.Join(root(), "workbook.json")
}

// openWorkbook opens the CLI's demo/reference workbook.Store, a JSON file
// sitting alongside the repository root (spec §1 treats the workbook store
// as externally owned; this is the CLI's own stand-in for one).
func openWorkbook() *workbook.FileStore {
	fs, err := workbook.OpenFileStore(workbookPath())
	if err != nil {
		fatal(err)
	}
	return fs
}

// openRepo opens an existing cellvcs repository at the current directory.
func openRepo() (*cellvcs.Repo, *workbook.FileStore) {
	wb := openWorkbook()
	repo, err := cellvcs.Open(root(), wb)
	if err != nil {
		fatal(err)
	}
	return repo, wb
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage(format string, args ...any) {
	fmt.Printf("usage: "+vcsName+" "+format+"\n", args...)
	os.Exit(1)
}
