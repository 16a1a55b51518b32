package render

import (
	"fmt"
	"strings"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// LAYOUT — Which chart ids a surface has targets for
// ============================================================================
// A page of canvases, a set of sheets, a set of files: every surface can be
// restricted to the ids it actually offers. A chart whose id is not in the
// layout fails with engine.ErrTargetNotFound and the render loop moves on.
// ============================================================================

// Layout is the set of chart ids a surface offers. A nil Layout offers any id.
type Layout map[string]bool

// NewLayout returns a Layout of ids. No ids means any id.
func NewLayout(ids ...string) Layout {
	var l Layout
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if l == nil {
			l = make(Layout)
		}
		l[id] = true
	}
	return l
}

// Has reports whether the layout offers a target for id.
func (l Layout) Has(id string) bool {
	return l == nil || l[id]
}

// check returns a wrapped engine.ErrTargetNotFound when id is not offered.
func (l Layout) check(id string) error {
	if !l.Has(id) {
		return fmt.Errorf("%w: %q", engine.ErrTargetNotFound, id)
	}
	return nil
}

// targetFunc adapts a function to engine.Target.
type targetFunc func(engine.Chart) error

func (f targetFunc) Draw(c engine.Chart) error {
	return f(c)
}
