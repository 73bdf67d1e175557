package calc

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{
			name: "two products",
			lines: []Line{
				{Price: decimal.RequireFromString("10.00"), Quantity: 2},
				{Price: decimal.RequireFromString("5.50"), Quantity: 1},
			},
			want: "25.5",
		},
		{
			name:  "no lines",
			lines: nil,
			want:  "0",
		},
		{
			name: "values that drift in float64",
			lines: []Line{
				{Price: decimal.RequireFromString("0.10"), Quantity: 3},
				{Price: decimal.RequireFromString("0.20"), Quantity: 1},
			},
			want: "0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotal(tt.lines)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeTotalRejectsBadLines(t *testing.T) {
	_, err := ComputeTotal([]Line{{Price: decimal.NewFromInt(5), Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidLine)

	_, err = ComputeTotal([]Line{{Price: decimal.Zero, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestComputeTotalMatchesIntegerCents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(8) + 1
		lines := make([]Line, n)
		var wantCents int64
		for j := range lines {
			cents := rng.Int63n(1_000_000) + 1
			qty := rng.Intn(50) + 1
			lines[j] = Line{Price: decimal.New(cents, -2), Quantity: qty}
			wantCents += cents * int64(qty)
		}

		got, err := ComputeTotal(lines)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.New(wantCents, -2)), "iteration %d: got %s want %d cents", i, got, wantCents)
	}
}
