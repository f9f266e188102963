// Command bookmarksctl runs operator tasks (migrations, imports, users) against the configured store.
package main

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/bookmarks/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
