package main

import (
	"context"
	"os"

	"github.com/Alias-z/FungariumOCR/internal/logger"
)

func main() {
	cli := NewCLI()
	err := cli.Run(context.Background(), os.Args[1:])
	if err != nil {
		logger.ErrorLog("Error: %v", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
