package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// #region errors

var (
	// ErrEmbedderRequired is returned when api mode is used without an Embedder.
	ErrEmbedderRequired = errors.New("embedder required for api mode")

	// ErrUnknownMode is returned by ParseMode for unrecognized names.
	ErrUnknownMode = errors.New("unknown evaluation mode")

	// ErrEmbeddingShape is returned when an embedder's output does not match its input.
	ErrEmbeddingShape = errors.New("malformed embedding response")
)

// #endregion errors

// #region embedder-interface

// Embedder turns texts into vectors, one per text, all of equal length.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// #endregion embedder-interface

// #region mode

// Mode selects where evaluation points come from.
type Mode string

const (
	// Coordinate mode evaluates the sampled raw coordinates directly.
	Coordinate Mode = "coordinate"
	// API mode embeds persona descriptions and reduces them to the axis count.
	API Mode = "api"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Coordinate, API:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// #endregion mode
