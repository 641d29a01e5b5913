package device

import (
	"fmt"
	"sync"
)

// Grid describes the execution configuration of a single launch: NumBlocks
// blocks of BlockSize workers each. Workers whose global index falls past
// the data range must perform no memory access; that check belongs to the
// kernel body.
type Grid struct {
	BlockSize int
	NumBlocks int
}

// GridFor returns the smallest grid of the given block size covering n
// workers. A zero n yields a single empty-running block so a launch is still
// well formed.
func GridFor(n, blockSize int) (Grid, error) {
	if blockSize <= 0 {
		return Grid{}, fmt.Errorf("%w: block size %d", ErrBadGrid, blockSize)
	}
	if n < 0 {
		return Grid{}, fmt.Errorf("%w: negative worker count %d", ErrBadGrid, n)
	}
	blocks := (n + blockSize - 1) / blockSize
	if blocks == 0 {
		blocks = 1
	}
	return Grid{BlockSize: blockSize, NumBlocks: blocks}, nil
}

func (g Grid) valid() error {
	if g.BlockSize <= 0 || g.NumBlocks <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadGrid, g.NumBlocks, g.BlockSize)
	}
	return nil
}

// Size returns the total worker count of the grid.
func (g Grid) Size() int { return g.BlockSize * g.NumBlocks }

// PowerOfTwo reports whether the block size admits the pairwise-halving
// tree reduction.
func (g Grid) PowerOfTwo() bool {
	return g.BlockSize > 0 && g.BlockSize&(g.BlockSize-1) == 0
}

// Options configures a Launcher at construction time. Checked selects the
// diagnosability mode: every launch joins its workers and then polls for a
// latched fault, so in-kernel failures are attributed to the launch that
// raised them. With Checked off a launch reports only configuration and
// binding failures; worker faults stay latched until Synchronize.
type Options struct {
	Checked bool
}

// Launcher dispatches data-parallel kernels. A launch either runs its full
// worker grid to completion or does not run at all; there is no partial
// dispatch. Launchers are safe for sequential reuse across kernels but not
// for concurrent launches.
type Launcher struct {
	opts Options

	mu    sync.Mutex
	fault *Fault

	scratch sync.Pool
}

func NewLauncher(opts Options) *Launcher {
	return &Launcher{opts: opts}
}

func (l *Launcher) Checked() bool { return l.opts.Checked }

// Launch runs one worker per grid slot. The kernel receives the global
// worker index in [0, grid.Size()).
func (l *Launcher) Launch(name string, g Grid, kernel func(id int)) error {
	if err := g.valid(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for b := 0; b < g.NumBlocks; b++ {
		wg.Add(1)
		go func(block int) {
			defer wg.Done()
			defer l.recoverFault(name, block)

			base := block * g.BlockSize
			for t := 0; t < g.BlockSize; t++ {
				kernel(base + t)
			}
		}(b)
	}
	wg.Wait()

	if l.opts.Checked {
		return l.Synchronize()
	}
	return nil
}

// LaunchBlocks runs one block-kernel per block, handing each a zeroed
// block-local scratch buffer of BlockSize slots. The reduction kernels use
// the scratch as their shared-memory stand-in; because a block executes as
// one worker, the halving loop's barrier ordering is preserved by program
// order.
func (l *Launcher) LaunchBlocks(name string, g Grid, kernel func(block int, scratch []float64)) error {
	if err := g.valid(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for b := 0; b < g.NumBlocks; b++ {
		wg.Add(1)
		go func(block int) {
			defer wg.Done()
			defer l.recoverFault(name, block)

			scratch := l.getScratch(g.BlockSize)
			kernel(block, scratch)
			l.putScratch(scratch)
		}(b)
	}
	wg.Wait()

	if l.opts.Checked {
		return l.Synchronize()
	}
	return nil
}

// Synchronize polls for a latched kernel fault, clears it, and returns it.
// In unchecked mode this is the only way a deferred fault surfaces.
func (l *Launcher) Synchronize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fault == nil {
		return nil
	}
	f := l.fault
	l.fault = nil
	return f
}

func (l *Launcher) recoverFault(name string, block int) {
	if r := recover(); r != nil {
		l.mu.Lock()
		// Keep the first fault; later ones from the same launch add nothing.
		if l.fault == nil {
			l.fault = &Fault{Kernel: name, Block: block, Cause: r}
		}
		l.mu.Unlock()
	}
}

func (l *Launcher) getScratch(n int) []float64 {
	if s, ok := l.scratch.Get().([]float64); ok && len(s) >= n {
		s = s[:n]
		for i := range s {
			s[i] = 0
		}
		return s
	}
	return make([]float64, n)
}

func (l *Launcher) putScratch(s []float64) {
	l.scratch.Put(s[:cap(s)])
}
