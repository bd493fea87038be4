package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cellvcs/cellvcs"
)

func handleConfig() {
	cmd := flag.NewFlagSet("config", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	args := cmd.Args()
	if len(args) < 1 {
		usage("config <key> [value]")
	}

	repo, _ := openRepo()
	key := args[0]

	if len(args) == 1 {
		value, err := repo.Config().Get(key)
		if err != nil {
			fatal(err)
		}
		fmt.Println(value)
		return
	}

	if err := repo.Config().Set(key, args[1]); err != nil {
		fatal(err)
	}
}

// currentIdentity reads user.name/user.email from the repository config,
// failing with a usage-level error if either is unset — every operation
// that creates a commit needs both (spec §7 ErrInvalidInput).
func currentIdentity(repo *cellvcs.Repo) (author, email string) {
	author, err := repo.Config().Get("user.name")
	if err != nil {
		fatal(err)
	}
	email, err = repo.Config().Get("user.email")
	if err != nil {
		fatal(err)
	}
	if author == "" || email == "" {
		fatal(fmt.Errorf("user.name and user.email must be set: %s config user.name <name>", vcsName))
	}
	return author, email
}
