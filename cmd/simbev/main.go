package main

import (
	"os"

	"github.com/jgoulah/simbev/internal/log"
)

func main() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
