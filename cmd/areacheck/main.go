package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/arf/areacheck/internal/infrastructure/cli"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	root := cli.NewRootCmd(cli.Options{Verbose: isVerbose()})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("AREACHECK_DEBUG"), "1") || strings.EqualFold(os.Getenv("AREACHECK_DEBUG"), "true")
}
