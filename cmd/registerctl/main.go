// Command registerctl administers the conference participant registry.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/register/internal/cli"
)

func main() {
	// Optional; the environment wins over .env
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		code := cli.GetExitCode(err)
		// Operation failures were already reported by the command.
		if code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, "registerctl:", err)
		}
		os.Exit(code)
	}
}
