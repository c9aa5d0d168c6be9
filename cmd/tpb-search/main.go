// tpb-search is a search plugin for The Pirate Bay. It prints plugin
// metadata or search results as JSON for a host application, and can
// also run as an interactive terminal browser.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			log.Error().Err(err).Msg("run failed")
		}
		os.Exit(1)
	}
}
