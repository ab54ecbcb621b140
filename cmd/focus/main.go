package main

import (
	"fmt"
	"os"

	"focus/internal/app"
)

func main() {
	rootCmd := app.NewRootCommand()
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
