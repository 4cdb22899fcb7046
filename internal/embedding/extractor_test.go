package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
	"github.com/danielpatrickdp/persona-diversity/internal/population"
)

// fakeEmbedder maps each text to a vector of per-letter counts.
type fakeEmbedder struct {
	calls int
	err   error
	drop  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, 0, len(texts))
	for _, text := range texts {
		v := make([]float64, 26)
		for _, r := range strings.ToLower(text) {
			if r >= 'a' && r <= 'z' {
				v[r-'a']++
			}
		}
		out = append(out, v)
	}
	if f.drop {
		out = out[:len(out)-1]
	}
	return out, nil
}

func personas() []population.Persona {
	texts := []string{
		"a retired teacher who avoids new apps",
		"zealous crypto trader, always online",
		"busy parent juggling budgets",
		"student exploring side hustles",
	}
	out := make([]population.Persona, len(texts))
	for i, text := range texts {
		out[i] = population.Persona{
			ID:          population.PersonaID(i),
			Description: text,
			Coordinates: []axis.Coordinate{
				{AxisID: "x", RawValue: float64(i) / 4},
				{AxisID: "y", RawValue: 1 - float64(i)/4},
			},
		}
	}
	return out
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("API")
	require.NoError(t, err)
	assert.Equal(t, API, m)

	m, err = ParseMode(" coordinate ")
	require.NoError(t, err)
	assert.Equal(t, Coordinate, m)

	_, err = ParseMode("hybrid")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestPoints_CoordinateMode(t *testing.T) {
	fe := &fakeEmbedder{}
	pts, err := NewExtractor(fe).Points(context.Background(), personas(), Coordinate, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, pts[1])
	assert.Zero(t, fe.calls)
}

func TestPoints_APIMode(t *testing.T) {
	fe := &fakeEmbedder{}
	pts, err := NewExtractor(fe).Points(context.Background(), personas(), API, 2)
	require.NoError(t, err)
	require.Len(t, pts, 4)
	for _, p := range pts {
		require.Len(t, p, 2)
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
	assert.Equal(t, 1, fe.calls)
}

func TestPoints_APIModeErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewExtractor(nil).Points(ctx, personas(), API, 2)
	require.ErrorIs(t, err, ErrEmbedderRequired)

	boom := errors.New("boom")
	_, err = NewExtractor(&fakeEmbedder{err: boom}).Points(ctx, personas(), API, 2)
	require.ErrorIs(t, err, boom)

	_, err = NewExtractor(&fakeEmbedder{drop: true}).Points(ctx, personas(), API, 2)
	require.ErrorIs(t, err, ErrEmbeddingShape)

	_, err = NewExtractor(nil).Points(ctx, personas(), Mode("other"), 2)
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestPoints_APIModeEmpty(t *testing.T) {
	fe := &fakeEmbedder{}
	pts, err := NewExtractor(fe).Points(context.Background(), nil, API, 3)
	require.NoError(t, err)
	assert.Empty(t, pts)
	assert.Zero(t, fe.calls)
}
