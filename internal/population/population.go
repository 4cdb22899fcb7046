package population

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
)

// #region io

// Decode reads a population from r.
func Decode(r io.Reader) (*Population, error) {
	var p Population
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode population: %w", err)
	}
	return &p, nil
}

// Encode writes p to w, indented unless compact is set.
func Encode(w io.Writer, p *Population, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode population: %w", err)
	}
	return nil
}

// Load reads a population file. Failures are returned as *LoadError.
func Load(path string) (*Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "parse", Err: err}
	}
	return p, nil
}

// Save writes p to path.
func Save(path string, p *Population, compact bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create population file: %w", err)
	}
	if err := Encode(f, p, compact); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close population file: %w", err)
	}
	return nil
}

// #endregion io

// #region points

// CoordinatePoints returns each persona's raw coordinate values.
func (p *Population) CoordinatePoints() [][]float64 {
	out := make([][]float64, len(p.Personas))
	for i, persona := range p.Personas {
		row := make([]float64, len(persona.Coordinates))
		for j, c := range persona.Coordinates {
			row[j] = c.RawValue
		}
		out[i] = row
	}
	return out
}

// Descriptions returns each persona's description, in order.
func (p *Population) Descriptions() []string {
	out := make([]string, len(p.Personas))
	for i, persona := range p.Personas {
		out[i] = persona.Description
	}
	return out
}

// #endregion points

// #region skeleton

// Skeleton builds a population whose personas carry only IDs and mapped
// coordinates. Names and descriptions are filled in by text generation.
func Skeleton(ctx Context, axes []axis.Axis, coords [][]axis.Coordinate, now time.Time) *Population {
	personas := make([]Persona, len(coords))
	for i, c := range coords {
		personas[i] = Persona{
			ID:               PersonaID(i),
			Coordinates:      c,
			Traits:           map[string]string{},
			BehaviorPatterns: []string{},
		}
	}
	return &Population{
		Context:     ctx,
		Axes:        axes,
		Personas:    personas,
		GeneratedAt: now.UTC(),
	}
}

// PersonaID formats the i-th (zero-based) persona ID: persona-001, persona-002, ...
func PersonaID(i int) string {
	return fmt.Sprintf("persona-%03d", i+1)
}

// #endregion skeleton
