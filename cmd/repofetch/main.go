package main

import (
	"os"

	cmd "github.com/MrSnakeDoc/repofetch/internal"
	"github.com/MrSnakeDoc/repofetch/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
