package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// fatalf logs a fatal error, prints it to stderr and exits.
func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Error().Msg(msg)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
