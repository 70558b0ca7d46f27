package conv

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convolve/internal/parallel"
	"github.com/born-ml/convolve/internal/reference"
	"github.com/born-ml/convolve/internal/tensor"
)

// tolerance is the maximum element-wise difference allowed between strategies.
const tolerance = 1e-5

// gridTensor fills shape with multiples of 1/8 in [-2, 2]. Products and sums
// of such values are exact in float32, so strategies must agree regardless
// of summation order.
func gridTensor(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.Intn(33)-16) / 8
	}
	return t
}

// oracle runs the reference operator with the engine's symmetric padding.
func oracle(t *testing.T, input, filter *tensor.Tensor, mode Padding) *tensor.Tensor {
	t.Helper()
	fs := filter.Shape()
	pad, err := ComputePadding(mode, fs[0], fs[1])
	require.NoError(t, err)
	pads := reference.Pads{Top: pad.Height, Bottom: pad.Height, Left: pad.Width, Right: pad.Width}
	return reference.Conv2D(input, filter, pads, parallel.Sequential())
}

func requireClose(t *testing.T, want, got *tensor.Tensor, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, want.Shape(), got.Shape(), msgAndArgs...)
	assert.InDeltaSlice(t, want.Data(), got.Data(), tolerance, msgAndArgs...)
}

// TestConvolve_IdentityFilterSame is the 4×4 image / 3×3 identity scenario.
func TestConvolve_IdentityFilterSame(t *testing.T) {
	input, err := tensor.FromSlice([]float32{
		3, 5, 3, 3,
		5, 1, 4, 5,
		2, 5, 0, 1,
		3, 3, 2, 1,
	}, tensor.Shape{1, 4, 4, 1})
	require.NoError(t, err)

	filter, err := tensor.Eye(3, 3).Reshape(tensor.Shape{3, 3, 1, 1})
	require.NoError(t, err)

	// out[y, x] = in[y-1, x-1] + in[y, x] + in[y+1, x+1], zeros outside.
	expected := []float32{
		4, 9, 8, 3,
		10, 4, 10, 8,
		5, 12, 2, 5,
		3, 5, 7, 1,
	}

	want := oracle(t, input, filter, Same)
	assert.InDeltaSlice(t, expected, want.Data(), tolerance)

	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			got, err := Convolve(input, filter, UnitStride, Same, s)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{1, 4, 4, 1}, got.Shape())
			requireClose(t, want, got)
		})
	}
}

// TestConvolve_MultiInputChannelValid: (1,4,4,10) against (3,3,10,1) → (1,2,2,1).
func TestConvolve_MultiInputChannelValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := gridTensor(rng, tensor.Shape{1, 4, 4, 10})
	filter := gridTensor(rng, tensor.Shape{3, 3, 10, 1})
	want := oracle(t, input, filter, Valid)

	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			got, err := Convolve(input, filter, UnitStride, Valid, s)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{1, 2, 2, 1}, got.Shape())
			requireClose(t, want, got)
		})
	}
}

// TestConvolve_StrategyEquivalence checks every strategy against the naive
// one and the reference over a spread of shapes and both padding modes.
func TestConvolve_StrategyEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		name   string
		input  tensor.Shape
		filter tensor.Shape
	}{
		{"1x1 kernel", tensor.Shape{2, 5, 4, 3}, tensor.Shape{1, 1, 3, 2}},
		{"3x3 single channel", tensor.Shape{1, 6, 6, 1}, tensor.Shape{3, 3, 1, 1}},
		{"3x3 multi channel", tensor.Shape{3, 7, 5, 2}, tensor.Shape{3, 3, 2, 4}},
		{"5x3 kernel", tensor.Shape{2, 9, 6, 3}, tensor.Shape{5, 3, 3, 2}},
		{"kernel equals image", tensor.Shape{2, 4, 4, 2}, tensor.Shape{4, 4, 2, 3}},
		{"wide image", tensor.Shape{1, 3, 17, 1}, tensor.Shape{3, 3, 1, 1}},
		{"even kernel", tensor.Shape{2, 6, 6, 2}, tensor.Shape{2, 2, 2, 2}},
	}

	for _, tt := range tests {
		input := gridTensor(rng, tt.input)
		filter := gridTensor(rng, tt.filter)

		for _, mode := range []Padding{Valid, Same} {
			t.Run(tt.name+"/"+string(mode), func(t *testing.T) {
				want := oracle(t, input, filter, mode)

				naive, err := Convolve(input, filter, UnitStride, mode, Naive)
				require.NoError(t, err)
				requireClose(t, want, naive, "naive vs reference")

				for _, s := range []Strategy{Partial, Full} {
					got, err := Convolve(input, filter, UnitStride, mode, s)
					require.NoError(t, err)
					requireClose(t, naive, got, "%s vs naive", s)
				}
			})
		}
	}
}

// TestConvolve_RandomNormalInputs uses unrounded values, where summation
// order matters but must stay within tolerance.
func TestConvolve_RandomNormalInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	input := tensor.Rand(tensor.Shape{2, 8, 8, 2}, rng)
	filter := tensor.TruncatedNormal(tensor.Shape{3, 3, 2, 2}, 0.1, rng)

	naive, err := Convolve(input, filter, UnitStride, Same, Naive)
	require.NoError(t, err)

	for _, s := range []Strategy{Partial, Full} {
		got, err := Convolve(input, filter, UnitStride, Same, s)
		require.NoError(t, err)
		requireClose(t, naive, got, "%s vs naive", s)
	}
}

func TestConvolve_ShapeLaws(t *testing.T) {
	tests := []struct {
		name     string
		mode     Padding
		input    tensor.Shape
		filter   tensor.Shape
		expected tensor.Shape
	}{
		{"valid 3x3", Valid, tensor.Shape{2, 10, 8, 1}, tensor.Shape{3, 3, 1, 4}, tensor.Shape{2, 8, 6, 4}},
		{"valid 5x1", Valid, tensor.Shape{1, 7, 7, 2}, tensor.Shape{5, 1, 2, 1}, tensor.Shape{1, 3, 7, 1}},
		{"valid kernel equals image", Valid, tensor.Shape{1, 4, 4, 1}, tensor.Shape{4, 4, 1, 1}, tensor.Shape{1, 1, 1, 1}},
		{"same 3x3", Same, tensor.Shape{3, 10, 8, 1}, tensor.Shape{3, 3, 1, 2}, tensor.Shape{3, 10, 8, 2}},
		{"same 5x3", Same, tensor.Shape{1, 6, 9, 3}, tensor.Shape{5, 3, 3, 1}, tensor.Shape{1, 6, 9, 1}},
		{"same 1x1", Same, tensor.Shape{1, 5, 5, 1}, tensor.Shape{1, 1, 1, 1}, tensor.Shape{1, 5, 5, 1}},
		// Even kernels get floor((k-1)/2) per side, so each axis loses one.
		{"same 2x2", Same, tensor.Shape{1, 6, 6, 1}, tensor.Shape{2, 2, 1, 1}, tensor.Shape{1, 5, 5, 1}},
		{"same 4x2", Same, tensor.Shape{1, 8, 8, 1}, tensor.Shape{4, 2, 1, 1}, tensor.Shape{1, 7, 7, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range Strategies {
				out, err := Convolve(tensor.Zeros(tt.input), tensor.Zeros(tt.filter), UnitStride, tt.mode, s)
				require.NoError(t, err, s)
				assert.Equal(t, tt.expected, out.Shape(), s)
			}
		})
	}
}

func TestConvolve_BatchIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	input := gridTensor(rng, tensor.Shape{4, 6, 5, 2})
	filter := gridTensor(rng, tensor.Shape{3, 3, 2, 3})

	for _, s := range Strategies {
		for _, mode := range []Padding{Valid, Same} {
			batched, err := Convolve(input, filter, UnitStride, mode, s)
			require.NoError(t, err)

			for n := 0; n < 4; n++ {
				single, err := Convolve(input.Select(0, n), filter, UnitStride, mode, s)
				require.NoError(t, err)
				requireClose(t, single, batched.Select(0, n), "%s/%s image %d", s, mode, n)
			}
		}
	}
}

func TestConvolve_ChannelIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	input := gridTensor(rng, tensor.Shape{2, 5, 5, 3})
	filter := gridTensor(rng, tensor.Shape{3, 3, 3, 4})

	for _, s := range Strategies {
		for _, mode := range []Padding{Valid, Same} {
			full, err := Convolve(input, filter, UnitStride, mode, s)
			require.NoError(t, err)

			for c := 0; c < 4; c++ {
				single, err := Convolve(input, filter.Select(3, c), UnitStride, mode, s)
				require.NoError(t, err)
				requireClose(t, single, full.Select(3, c), "%s/%s channel %d", s, mode, c)
			}
		}
	}
}

func TestConvolve_ZeroFilter(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	input := tensor.Randn(tensor.Shape{2, 6, 6, 3}, rng)
	filter := tensor.Zeros(tensor.Shape{3, 3, 3, 2})

	for _, s := range Strategies {
		for _, mode := range []Padding{Valid, Same} {
			out, err := Convolve(input, filter, UnitStride, mode, s)
			require.NoError(t, err)
			for i, v := range out.Data() {
				require.Zero(t, v, "%s/%s index %d", s, mode, i)
			}
		}
	}
}

func TestConvolve_DoesNotMutateOrAlias(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	input := gridTensor(rng, tensor.Shape{1, 4, 4, 2})
	filter := gridTensor(rng, tensor.Shape{3, 3, 2, 1})
	inputCopy := input.Clone()
	filterCopy := filter.Clone()

	for _, s := range Strategies {
		for _, mode := range []Padding{Valid, Same} {
			out, err := Convolve(input, filter, UnitStride, mode, s)
			require.NoError(t, err)
			assert.Equal(t, inputCopy.Data(), input.Data())
			assert.Equal(t, filterCopy.Data(), filter.Data())

			// Writing to the output must not reach the inputs.
			for i := range out.Data() {
				out.Data()[i] = 99
			}
			assert.Equal(t, inputCopy.Data(), input.Data())
		}
	}
}

// Multi-image and multi-channel cases compared against the reference.
func TestConvolve_AgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(23))

	tests := []struct {
		name   string
		mode   Padding
		input  tensor.Shape
		filter tensor.Shape
	}{
		{"two images", Same, tensor.Shape{2, 5, 5, 1}, tensor.Shape{3, 3, 1, 1}},
		{"many images", Same, tensor.Shape{10, 8, 8, 1}, tensor.Shape{3, 3, 1, 1}},
		{"multi input channel", Same, tensor.Shape{1, 6, 6, 3}, tensor.Shape{3, 3, 3, 1}},
		{"multi output channel", Same, tensor.Shape{1, 6, 6, 1}, tensor.Shape{3, 3, 1, 5}},
		{"multi channel and image same", Same, tensor.Shape{4, 7, 7, 3}, tensor.Shape{5, 5, 3, 2}},
		{"multi channel and image valid", Valid, tensor.Shape{4, 7, 7, 3}, tensor.Shape{5, 5, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := gridTensor(rng, tt.input)
			filter := gridTensor(rng, tt.filter)
			want := oracle(t, input, filter, tt.mode)

			for _, s := range Strategies {
				got, err := Convolve(input, filter, UnitStride, tt.mode, s)
				require.NoError(t, err)
				requireClose(t, want, got, s)
			}
		})
	}
}

func TestConvolve_Errors(t *testing.T) {
	input := tensor.Zeros(tensor.Shape{1, 4, 4, 2})
	filter := tensor.Zeros(tensor.Shape{3, 3, 2, 1})

	tests := []struct {
		name     string
		input    *tensor.Tensor
		filter   *tensor.Tensor
		stride   Stride
		padding  Padding
		strategy Strategy
		wantErr  error
	}{
		{"channel mismatch", input, tensor.Zeros(tensor.Shape{3, 3, 3, 1}), UnitStride, Valid, Full, ErrChannelMismatch},
		{"stride height", input, filter, Stride{1, 2, 1, 1}, Valid, Full, ErrUnsupportedStride},
		{"stride batch", input, filter, Stride{2, 1, 1, 1}, Same, Naive, ErrUnsupportedStride},
		{"stride zero", input, filter, Stride{}, Valid, Partial, ErrUnsupportedStride},
		{"lowercase padding", input, filter, UnitStride, "same", Full, ErrInvalidPaddingMode},
		{"empty padding", input, filter, UnitStride, "", Full, ErrInvalidPaddingMode},
		{"input rank", tensor.Zeros(tensor.Shape{4, 4, 2}), filter, UnitStride, Valid, Full, ErrInvalidShape},
		{"filter rank", input, tensor.Zeros(tensor.Shape{3, 3, 2}), UnitStride, Valid, Full, ErrInvalidShape},
		{"kernel too large", input, tensor.Zeros(tensor.Shape{5, 3, 2, 1}), UnitStride, Valid, Full, ErrKernelTooLarge},
		{"unknown strategy", input, filter, UnitStride, Valid, Strategy(9), ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convolve(tt.input, tt.filter, tt.stride, tt.padding, tt.strategy)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

// A stride error takes precedence over a channel mismatch.
func TestValidateShapes_Order(t *testing.T) {
	err := ValidateShapes(tensor.Shape{1, 4, 4, 2}, tensor.Shape{3, 3, 3, 1}, Stride{1, 1, 2, 1})
	assert.ErrorIs(t, err, ErrUnsupportedStride)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "validate", shapeErr.Op)

	err = ValidateShapes(tensor.Shape{1, 4, 4, 2}, tensor.Shape{3, 3, 3, 1}, UnitStride)
	require.ErrorAs(t, err, &shapeErr)
	assert.ErrorIs(t, err, ErrChannelMismatch)
	assert.Contains(t, err.Error(), "input has 2 channels, filter expects 3")

	assert.NoError(t, ValidateShapes(tensor.Shape{1, 4, 4, 2}, tensor.Shape{3, 3, 2, 1}, UnitStride))
}
