package main

import (
	"github.com/joho/godotenv"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Best-effort: a .env next to the binary may hold the API key.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
