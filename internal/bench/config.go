// Package bench times the convolution strategies against the reference
// operator over a sweep of growing image sizes.
//
// The sweep and skip policy live here so the engine stays free of any timing
// concerns: a strategy is simply not run above its size threshold.
package bench

import (
	"errors"
	"fmt"

	"github.com/born-ml/convolve/internal/conv"
	"github.com/born-ml/convolve/internal/parallel"
)

// Config controls a benchmark sweep.
type Config struct {
	Images      int          // Images per batch.
	InChannels  int          // Input channels per image.
	OutChannels int          // Filter output channels.
	FilterSize  int          // Square kernel side.
	Padding     conv.Padding // VALID or SAME.
	Sizes       []int        // Square image sides, in run order.

	// Largest image side each slow strategy is run at. Zero or negative
	// means no limit.
	PartialMaxSize int
	NaiveMaxSize   int

	Seed      int64   // Seed for inputs and filters.
	Verify    bool    // Compare every strategy with the reference output.
	Tolerance float64 // Max absolute difference accepted by Verify.

	Parallel parallel.Config // Used by the reference operator only.
}

// DefaultConfig mirrors the classic sweep: ten single-channel images, a 3×3
// filter, VALID padding, sizes 5 to 500, partial up to 150 and naive up to 20.
func DefaultConfig() Config {
	return Config{
		Images:         10,
		InChannels:     1,
		OutChannels:    1,
		FilterSize:     3,
		Padding:        conv.Valid,
		Sizes:          []int{5, 10, 15, 20, 30, 50, 75, 100, 150, 300, 500},
		PartialMaxSize: 150,
		NaiveMaxSize:   20,
		Seed:           1,
		Verify:         false,
		Tolerance:      1e-4,
		Parallel:       parallel.DefaultConfig(),
	}
}

// Validate checks that every size can be convolved with the configured filter.
func (c Config) Validate() error {
	var errs []error
	if c.Images <= 0 {
		errs = append(errs, fmt.Errorf("images must be > 0, got %d", c.Images))
	}
	if c.InChannels <= 0 {
		errs = append(errs, fmt.Errorf("in-channels must be > 0, got %d", c.InChannels))
	}
	if c.OutChannels <= 0 {
		errs = append(errs, fmt.Errorf("out-channels must be > 0, got %d", c.OutChannels))
	}
	if c.FilterSize <= 0 {
		errs = append(errs, fmt.Errorf("filter size must be > 0, got %d", c.FilterSize))
	}
	if _, err := conv.ParsePadding(string(c.Padding)); err != nil {
		errs = append(errs, err)
	}
	if len(c.Sizes) == 0 {
		errs = append(errs, errors.New("at least one image size is required"))
	}
	for _, s := range c.Sizes {
		if s <= 0 {
			errs = append(errs, fmt.Errorf("image size must be > 0, got %d", s))
		}
	}
	if c.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("tolerance must be >= 0, got %g", c.Tolerance))
	}
	return errors.Join(errs...)
}

// Enabled reports whether strategy s runs at image side size.
func (c Config) Enabled(s conv.Strategy, size int) bool {
	limit := 0
	switch s {
	case conv.Naive:
		limit = c.NaiveMaxSize
	case conv.Partial:
		limit = c.PartialMaxSize
	}
	return limit <= 0 || size <= limit
}
