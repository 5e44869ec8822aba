package chronotree

import (
	"fmt"
	"io"

	"github.com/chronotree/chronotree/internal/colors"
	"github.com/chronotree/chronotree/internal/seals"
)

// Print writes a human-readable summary of this replica's frontier to
// w: the bitter end, its kind, and the current loose ends in sorted
// order. It never returns an error; a write failure on w is the
// caller's problem to notice through the returned byte count semantics
// of fmt.Fprintf, which this does not propagate, matching the rest of
// the package's diagnostic-only output helpers.
func (t *ChronoTree) Print(w io.Writer) {
	bitterEnd, err := t.GetNode(t.bitterEnd)
	if err != nil {
		fmt.Fprintln(w, colors.ErrorText(fmt.Sprintf("bitter end %s not in known_nodes", t.bitterEnd)))
		return
	}

	fmt.Fprintf(w, "%s %s (%s) %s\n",
		colors.NodeRolePrefix(bitterEnd.Kind == AggregateNode),
		seals.Name(t.bitterEnd),
		t.bitterEnd,
		colorizeKind(bitterEnd.Kind))

	ends := t.LooseEnds()
	if len(ends) == 0 {
		fmt.Fprintln(w, colors.Dim("  (no loose ends)"))
		return
	}

	fmt.Fprintf(w, "%s\n", colors.SectionHeader(fmt.Sprintf("loose ends (%d)", len(ends))))
	for _, h := range ends {
		n, err := t.GetNode(h)
		if err != nil {
			fmt.Fprintf(w, "  %s %s\n", colors.ErrorText("?"), h)
			continue
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", colors.ContentColor("*"), seals.Name(h), colorizeKind(n.Kind))
	}
}

func colorizeKind(k Kind) string {
	switch k {
	case AggregateNode:
		return colors.AggregateColor(k.String())
	default:
		return colors.ContentColor(k.String())
	}
}
