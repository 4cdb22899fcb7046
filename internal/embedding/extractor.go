package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielpatrickdp/persona-diversity/internal/population"
	"github.com/danielpatrickdp/persona-diversity/internal/projection"
)

// #region extractor

// Extractor produces evaluation points from personas.
type Extractor struct {
	embedder Embedder
	logger   *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the extractor logger.
func WithLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor. embedder may be nil when only
// coordinate mode is used.
func NewExtractor(embedder Embedder, opts ...ExtractorOption) *Extractor {
	e := &Extractor{embedder: embedder, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Points returns one point per persona. In coordinate mode these are the raw
// coordinate values. In api mode the descriptions are embedded and reduced
// to targetDims with PCA, then normalized to [0,1].
func (e *Extractor) Points(ctx context.Context, personas []population.Persona, mode Mode, targetDims int) ([][]float64, error) {
	switch mode {
	case Coordinate:
		pop := population.Population{Personas: personas}
		return pop.CoordinatePoints(), nil
	case API:
		return e.embeddedPoints(ctx, personas, targetDims)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (e *Extractor) embeddedPoints(ctx context.Context, personas []population.Persona, targetDims int) ([][]float64, error) {
	if e.embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(personas) == 0 {
		return [][]float64{}, nil
	}
	pop := population.Population{Personas: personas}
	texts := pop.Descriptions()

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed descriptions: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingShape, len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) == 0 || len(v) != len(vectors[0]) {
			return nil, fmt.Errorf("%w: vector %d has length %d", ErrEmbeddingShape, i, len(v))
		}
	}

	points, err := projection.ReduceNormalized(vectors, targetDims)
	if err != nil {
		return nil, fmt.Errorf("reduce embeddings: %w", err)
	}
	e.logger.Debug("reduced embeddings",
		"personas", len(personas),
		"embedding_dims", len(vectors[0]),
		"target_dims", targetDims,
	)
	return points, nil
}

// #endregion extractor
