package device

import (
	"errors"
	"fmt"
)

// Errors reported by the launch driver.
var (
	// ErrBindShort indicates a read-only binding could not cover the live
	// particle count.
	ErrBindShort = errors.New("device: bound array shorter than requested count")

	// ErrBadGrid indicates a launch grid with a non-positive block size or
	// block count.
	ErrBadGrid = errors.New("device: invalid launch grid")

	// ErrBlockSize indicates a reduction launch whose block size is not a
	// power of two.
	ErrBlockSize = errors.New("device: reduction block size must be a power of two")
)

// Fault wraps a failure raised inside a kernel worker. In unchecked mode it
// stays latched on the launcher until the next Synchronize; in checked mode
// it is returned by the launch that caused it.
type Fault struct {
	Kernel string
	Block  int
	Cause  any
}

func (f *Fault) Error() string {
	return fmt.Sprintf("device: kernel fault in %s (block %d): %v", f.Kernel, f.Block, f.Cause)
}
