package population

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

// #region types

// Context describes what the population is generated for.
type Context struct {
	Description string `json:"description"`
	Expanded    string `json:"expanded,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// Persona is one member of a population. Coordinates are in axis order.
type Persona struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Coordinates      []axis.Coordinate `json:"coordinates"`
	Description      string            `json:"description"`
	Traits           map[string]string `json:"traits"`
	BehaviorPatterns []string          `json:"behaviorPatterns"`
}

// Population is a generated persona set with its axes and optional metrics.
type Population struct {
	Context     Context      `json:"context"`
	Axes        []axis.Axis  `json:"axes"`
	Personas    []Persona    `json:"personas"`
	Metrics     *eval.Result `json:"metrics,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// #endregion types

// #region errors

// ErrEmptyPopulation is returned when an operation needs at least one persona.
var ErrEmptyPopulation = errors.New("population has no personas")

// LoadError reports a failure to read or decode a population file.
type LoadError struct {
	Path string
	Op   string // "read" or "parse"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s population %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// #endregion errors
