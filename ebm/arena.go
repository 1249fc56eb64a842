package ebm

import (
	"fmt"
	"log"
)

//ScratchArena is the per-worker histogram buffer. It grows to double the
//requested size and never shrinks, so across a sweep of many feature pairs the
//steady state is zero allocations. Contents are dropped on growth; callers
//always get a freshly zeroed tensor region from Grab.
type ScratchArena struct {
	bytes []byte
}

func NewScratchArena() *ScratchArena {
	return &ScratchArena{}
}

//Grab returns a span of n bytes backed by the arena, growing the arena to 2n
//when the current capacity is insufficient. The first zeroBytes of the span
//are cleared; the remainder is left as-is (the pair sweep writes its auxiliary
//bins before reading them).
func (a *ScratchArena) Grab(n, zeroBytes int) ([]byte, error) {
	if n < 0 || zeroBytes < 0 || n < zeroBytes {
		return nil, fmt.Errorf("%w: bad scratch request of %d bytes", ErrInvalidArgument, n)
	}
	if cap(a.bytes) < n {
		if isMultiplyError(n, 2) {
			return nil, fmt.Errorf("%w: scratch buffer of %d bytes", ErrAllocationImpossible, n)
		}
		grown, err := allocateBytes(2 * n)
		if err != nil {
			return nil, err
		}
		log.Printf("growing scratch arena to %d bytes", 2*n)
		a.bytes = grown
	}
	span := a.bytes[:n]
	for i := 0; i < zeroBytes; i++ {
		span[i] = 0
	}
	return span, nil
}

//allocateBytes isolates the one place the arena allocates so an impossible
//request surfaces as ErrOutOfMemory instead of an aborting panic.
func allocateBytes(n int) (buf []byte, err error) {
	defer func() {
		if recover() != nil {
			buf, err = nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n)
		}
	}()
	return make([]byte, n), nil
}
