package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(DefaultDimensions)
	ctx := context.Background()

	a, err := e.Embed(ctx, "Users abandon checkout when forms ask too much")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "Users abandon checkout when forms ask too much")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(DefaultDimensions)

	vec, err := e.Embed(context.Background(), "direct human voice avoids jargon")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestHashEmbedder_NoTokensYieldsZeroVector(t *testing.T) {
	e := NewHashEmbedder(64)

	// Every token is two characters or shorter, so all are dropped.
	vec, err := e.Embed(context.Background(), "a to of it is")
	require.NoError(t, err)

	require.Len(t, vec, 64)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestNewHashEmbedder_InvalidDimensions(t *testing.T) {
	e := NewHashEmbedder(0)
	assert.Equal(t, DefaultDimensions, e.Dimensions())

	e = NewHashEmbedder(-5)
	assert.Equal(t, DefaultDimensions, e.Dimensions())
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and strips punctuation",
			input: "Don't Lose Progress!",
			want:  []string{"don", "lose", "progress"},
		},
		{
			name:  "drops short tokens",
			input: "go to the checkout",
			want:  []string{"the", "checkout"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "symbols become separators",
			input: "save+close=done",
			want:  []string{"save", "close", "done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestCosine_IdenticalText(t *testing.T) {
	e := NewHashEmbedder(DefaultDimensions)
	ctx := context.Background()

	a, _ := e.Embed(ctx, "payment form checkout")
	b, _ := e.Embed(ctx, "payment form checkout")

	assert.InDelta(t, 1.0, Cosine(a, b), 1e-5)
}

func TestCosine_LexicalOverlapRanksHigher(t *testing.T) {
	e := NewHashEmbedder(DefaultDimensions)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "payment form abandon checkout")
	related, _ := e.Embed(ctx, "checkout payment fields overwhelm users")
	unrelated, _ := e.Embed(ctx, "penguin habitat weather patterns")

	assert.Greater(t, Cosine(query, related), Cosine(query, unrelated))
}

func TestCosine_OppositeVectors(t *testing.T) {
	v := []float32{0.5, -1, 2}
	neg := []float32{-0.5, 1, -2}

	assert.InDelta(t, -1.0, Cosine(v, neg), 1e-5)
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-5)
}

func TestCosine_DegenerateInputs(t *testing.T) {
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}))
	assert.Zero(t, Cosine([]float32{1, 2, 3}, []float32{0, 0, 0}))
}

func TestCosine_NeverNaN(t *testing.T) {
	vecs := [][]float32{nil, {}, {0, 0}, {1, -1}}
	for _, a := range vecs {
		for _, b := range vecs {
			got := Cosine(a, b)
			assert.False(t, math.IsNaN(float64(got)))
		}
	}
}
