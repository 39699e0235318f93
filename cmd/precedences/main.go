package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Exit codes, the conflict one as in the SAT competition format.
const (
	exitError    = 1
	exitConflict = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Cause(err) == errConflict {
			os.Exit(exitConflict)
		}
		log.Error(err)
		os.Exit(exitError)
	}
}
