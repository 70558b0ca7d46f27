package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/born-ml/convolve/internal/conv"
	"github.com/born-ml/convolve/internal/reference"
	"github.com/born-ml/convolve/internal/tensor"
)

// ErrMismatch is returned when Verify is set and a strategy disagrees with
// the reference beyond Config.Tolerance.
var ErrMismatch = errors.New("strategy output differs from reference")

// Result holds the timings for one image size.
type Result struct {
	Size      int
	Reference time.Duration
	Times     map[conv.Strategy]time.Duration // Absent key means skipped.
	MaxDiff   map[conv.Strategy]float64       // Filled only when verifying.
}

// Duration returns the time of strategy s and whether it ran.
func (r Result) Duration(s conv.Strategy) (time.Duration, bool) {
	d, ok := r.Times[s]
	return d, ok
}

// Runner executes a sweep.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	rng    *rand.Rand
}

// NewRunner creates a Runner. A nil logger uses slog.Default().
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bench: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // G404: reproducible benchmark inputs
	}, nil
}

// Run times the reference and every enabled strategy for each configured
// size, in order. ctx is checked between measurements; a single convolution
// is never interrupted.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if err := r.warmUp(); err != nil {
		return nil, err
	}

	r.logger.Info("starting benchmark",
		"images", r.cfg.Images,
		"in_channels", r.cfg.InChannels,
		"filter", fmt.Sprintf("%dx%dx%dx%d", r.cfg.FilterSize, r.cfg.FilterSize, r.cfg.InChannels, r.cfg.OutChannels),
		"padding", r.cfg.Padding)

	results := make([]Result, 0, len(r.cfg.Sizes))
	for _, size := range r.cfg.Sizes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.runSize(ctx, size)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// warmUp runs one tiny convolution per path so first-call costs do not land
// in the smallest measurement.
func (r *Runner) warmUp() error {
	input, filter := r.inputs(r.cfg.FilterSize)
	if _, err := r.reference(input, filter); err != nil {
		return err
	}
	_, err := conv.Convolve(input, filter, conv.UnitStride, r.cfg.Padding, conv.DefaultStrategy)
	return err
}

func (r *Runner) runSize(ctx context.Context, size int) (Result, error) {
	input, filter := r.inputs(size)
	res := Result{
		Size:    size,
		Times:   make(map[conv.Strategy]time.Duration, len(conv.Strategies)),
		MaxDiff: make(map[conv.Strategy]float64, len(conv.Strategies)),
	}

	start := time.Now()
	want, err := r.reference(input, filter)
	if err != nil {
		return res, err
	}
	res.Reference = time.Since(start)

	// Fastest first, so a cancelled sweep still reports the useful numbers.
	for i := len(conv.Strategies) - 1; i >= 0; i-- {
		s := conv.Strategies[i]
		if !r.cfg.Enabled(s, size) {
			r.logger.Debug("skipping strategy", "strategy", s, "size", size)
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		got, err := conv.Convolve(input, filter, conv.UnitStride, r.cfg.Padding, s)
		if err != nil {
			return res, fmt.Errorf("bench: size %d, strategy %s: %w", size, s, err)
		}
		res.Times[s] = time.Since(start)

		if r.cfg.Verify {
			diff := MaxAbsDiff(got, want)
			res.MaxDiff[s] = diff
			if diff > r.cfg.Tolerance {
				return res, fmt.Errorf("%w: size %d, strategy %s, max diff %g > %g",
					ErrMismatch, size, s, diff, r.cfg.Tolerance)
			}
		}
	}

	r.logger.Debug("measured size", "size", size, "reference", res.Reference, "strategies", len(res.Times))
	return res, nil
}

// inputs draws a batch of size×size images with values in [0, 1) and a
// truncated-normal filter with stddev 0.1.
func (r *Runner) inputs(size int) (*tensor.Tensor, *tensor.Tensor) {
	input := tensor.Rand(tensor.Shape{r.cfg.Images, size, size, r.cfg.InChannels}, r.rng)
	filter := tensor.TruncatedNormal(
		tensor.Shape{r.cfg.FilterSize, r.cfg.FilterSize, r.cfg.InChannels, r.cfg.OutChannels}, 0.1, r.rng)
	return input, filter
}

// reference runs the oracle with the engine's symmetric padding so both
// produce the same output shape, even for even kernels.
func (r *Runner) reference(input, filter *tensor.Tensor) (*tensor.Tensor, error) {
	k := r.cfg.FilterSize
	pad, err := conv.ComputePadding(r.cfg.Padding, k, k)
	if err != nil {
		return nil, err
	}
	if _, err := conv.OutputShape(input.Shape(), filter.Shape(), pad); err != nil {
		return nil, err
	}
	pads := reference.Pads{Top: pad.Height, Bottom: pad.Height, Left: pad.Width, Right: pad.Width}
	return reference.Conv2D(input, filter, pads, r.cfg.Parallel), nil
}

// MaxAbsDiff returns the largest element-wise |a-b|, or +Inf if the shapes differ.
func MaxAbsDiff(a, b *tensor.Tensor) float64 {
	if !a.Shape().Equal(b.Shape()) {
		return math.Inf(1)
	}
	bData := b.Data()
	maxDiff := 0.0
	for i, av := range a.Data() {
		maxDiff = math.Max(maxDiff, math.Abs(float64(av)-float64(bData[i])))
	}
	return maxDiff
}
