// Package progress keeps the per-step timing statistics of a simulation run.
package progress

import "fmt"

// RunningAverage is the cumulative mean of a stream of equally weighted
// samples, kept without storing the samples themselves.
// The zero value is an empty average ready to use.
type RunningAverage struct {
	mean    float64
	samples uint
}

// Update folds one sample into the mean.
func (a *RunningAverage) Update(sample float64) *RunningAverage {
	n := float64(a.samples)
	a.samples++
	a.mean = (a.mean*n + sample) / float64(a.samples)
	return a
}

// Value returns the current mean, 0 when no sample was folded in yet.
func (a *RunningAverage) Value() float64 {
	return a.mean
}

// Samples returns the number of samples folded in.
func (a *RunningAverage) Samples() uint {
	return a.samples
}

// Reset drops all samples.
func (a *RunningAverage) Reset() {
	a.mean = 0
	a.samples = 0
}

// Scale returns the mean multiplied by x.
func (a *RunningAverage) Scale(x float64) float64 {
	return a.mean * x
}

// String renders the mean as the fixed-width seconds-per-step column.
func (a *RunningAverage) String() string {
	return fmt.Sprintf("%8.2f", a.mean)
}
