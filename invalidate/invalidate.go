// Package invalidate tracks layout generations. Every grid and map set is
// stamped with the generation current when its build started; a query is
// only served when that stamp still equals the counter.
package invalidate

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/katalvlaran/warepath/internal/logging"
)

// ErrStaleGeneration is the sentinel matched by every *StaleGenerationError.
var ErrStaleGeneration = errors.New("invalidate: stale generation")

// Stamp identifies one generation. The zero Stamp precedes every build.
type Stamp uint64

// StaleGenerationError reports a query against superseded data.
type StaleGenerationError struct {
	Stamp   Stamp // generation the data was built at
	Current Stamp // generation the counter has reached
}

func (e *StaleGenerationError) Error() string {
	return fmt.Sprintf("invalidate: data built at generation %d, current is %d", e.Stamp, e.Current)
}

// Is matches ErrStaleGeneration.
func (e *StaleGenerationError) Is(target error) bool { return target == ErrStaleGeneration }

// Counter is a monotonically increasing generation counter. The zero value
// is ready to use and safe for concurrent use.
type Counter struct {
	v atomic.Uint64
}

// Current returns the active generation.
func (c *Counter) Current() Stamp {
	return Stamp(c.v.Load())
}

// Advance moves to a new generation and returns it. reason is logged.
func (c *Counter) Advance(reason string) Stamp {
	s := Stamp(c.v.Add(1))
	logging.Logger().Debug("invalidate: generation advanced", "generation", uint64(s), "reason", reason)
	return s
}

// IsCurrent reports whether s is the active generation.
func (c *Counter) IsCurrent(s Stamp) bool {
	return s == c.Current()
}

// Check returns a *StaleGenerationError unless s is the active generation.
func (c *Counter) Check(s Stamp) error {
	if cur := c.Current(); s != cur {
		return &StaleGenerationError{Stamp: s, Current: cur}
	}
	return nil
}
