package engine

import (
	"errors"
	"fmt"
)

// ErrTargetNotFound indicates a surface has no drawing target for a chart id.
var ErrTargetNotFound = errors.New("render target not found")

// ErrUnsupportedKind indicates a surface cannot draw a chart kind.
var ErrUnsupportedKind = errors.New("unsupported chart kind")

// ErrUnknownStrategy indicates a chart definition names no known aggregation.
var ErrUnknownStrategy = errors.New("unknown aggregation strategy")

// ChartError isolates a failure to one chart unit.
type ChartError struct {
	ChartID string
	Stage   string // "build", "target", "draw"
	Err     error
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("chart %q (%s): %v", e.ChartID, e.Stage, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// NewChartError creates a new ChartError.
func NewChartError(chartID, stage string, err error) *ChartError {
	return &ChartError{
		ChartID: chartID,
		Stage:   stage,
		Err:     err,
	}
}
