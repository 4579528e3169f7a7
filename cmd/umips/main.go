// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command umips loads a machine description and exercises its address
// translation, dumps its state, or serves it for inspection.
package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf(".env: %v", err)
	}

	err = rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
