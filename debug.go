package sprig

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// debugStats holds per-frame timing and propagation metrics.
// Only populated when Forest.debug is true.
type debugStats struct {
	propagateTime time.Duration
	pass          PropagateStats
}

// debugLog prints timing and propagation stats to stderr.
func (f *Forest) debugLog(stats debugStats) {
	if !f.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[sprig] frame %d | propagate: %v | visited: %d | recomputed: %d | rescheduled: %d | synced: %d\n",
		f.frame, stats.propagateTime, stats.pass.Visited, stats.pass.Recomputed,
		stats.pass.Rescheduled, stats.pass.Synced)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation or a pass. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("sprig debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := n.Depth() + 1
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[sprig] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[sprig] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump writes every tree in the forest to w, one node per block, indented by
// depth, with the node's relation and full transform.
func (f *Forest) Dump(w io.Writer) {
	f.Walk(func(n *Node) bool {
		pad := strings.Repeat("  ", n.Depth())
		rel := "none"
		if n.relation != nil {
			if k, ok := KindOf(n.relation); ok {
				rel = k.String()
			} else {
				rel = fmt.Sprintf("%T", n.relation)
			}
		}
		_, _ = fmt.Fprintf(w, "%s%s #%d [%s] modified=%v\n", pad, n.Name, n.ID, rel, n.modified)
		for _, line := range strings.Split(strings.TrimRight(dumpConfig.Sdump(n.transform), "\n"), "\n") {
			_, _ = fmt.Fprintf(w, "%s  %s\n", pad, line)
		}
		return true
	})
}
