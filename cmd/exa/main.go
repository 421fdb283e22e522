// Command exa searches the web through the Exa API with multi-key
// rotation and local response caching.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()

	root, err := cli.NewRootCmd(ctx, cli.Options{Verbose: os.Getenv("EXA_DEBUG") == "1"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			fmt.Fprintln(os.Stderr, "No results found.")
			os.Exit(3)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
