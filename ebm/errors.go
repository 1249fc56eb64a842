package ebm

import (
	"errors"
	"log"
)

//Hard failures surfaced to callers. Everything else the scoring path can hit
//(unsupported dimensionality, degenerate axes, empty datasets, numeric
//breakdown) is recovered as "score 0, no error" because callers sweep many
//feature groups and want per-group failures to be ignorable.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrAllocationImpossible = errors.New("allocation impossible")
	ErrOutOfMemory          = errors.New("out of memory")
)

//HandleError panics on must-not-fail paths; main packages and tests use it
//for io plumbing around the engine.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}
