package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jparkin/mnemo/internal/cli"
)

func main() {
	// Best-effort: a missing .env is fine.
	godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
