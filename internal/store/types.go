package store

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// #region run-record

// RunRecord is one stored evaluation of a point set.
type RunRecord struct {
	RunID      string
	Source     string // population file, fixture name, or "sample"
	Mode       string // "coordinate" | "api"
	Dimensions int
	NumPoints  int
	Seed       uint64
	Result     eval.Result
	Points     [][]float64
	CreatedAt  time.Time
}

// #endregion run-record
