package main

import (
	"github.com/joho/godotenv"

	"docqa/internal/cli"
)

func main() {
	// API keys may live in a .env file next to the binary.
	_ = godotenv.Load()

	cli.Execute()
}
