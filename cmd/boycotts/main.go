package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/boycotts/internal/cli"
	"github.com/ppiankov/boycotts/internal/pipeline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := cli.Execute(); err != nil {
		report(err)
		os.Exit(1)
	}
}

// report prints the final failure; pipeline failures carry a stack when they were panics
func report(err error) {
	var netErr *pipeline.NetworkError
	var unexpected *pipeline.UnexpectedError

	switch {
	case errors.As(err, &netErr):
		fmt.Fprintf(os.Stderr, "Scraping failed: %v\n", err)
	case errors.As(err, &unexpected):
		fmt.Fprintf(os.Stderr, "Scraping failed: %v\n", err)
		if len(unexpected.Stack) > 0 {
			fmt.Fprintf(os.Stderr, "\n%s\n", unexpected.Stack)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
