package parser

import (
	"math"

	"github.com/dynobj/dynobj-go/internal/errors"
)

// fuelTracker counts down the number of values a parse may still produce.
type fuelTracker struct {
	initial   uint64
	remaining int64
}

func newFuelTracker(fuel uint64) *fuelTracker {
	if fuel > math.MaxInt64 {
		fuel = math.MaxInt64
	}
	return &fuelTracker{initial: fuel, remaining: int64(fuel)}
}

func (f *fuelTracker) consume(amount int64) *errors.Error {
	if amount == 0 {
		return nil
	}
	f.remaining -= amount
	if f.remaining < 0 {
		return errors.Newf(errors.ErrOutOfRange, "out of fuel: document has more than %d values", f.initial)
	}
	return nil
}
