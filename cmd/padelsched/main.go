package main

import (
	"github.com/joho/godotenv"

	"github.com/example/padel-scheduler/cmd"
)

func main() {
	// A local .env may carry PADELSCHED_* overrides; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
