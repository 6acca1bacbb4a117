package sprig

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// scriptStep represents a single action in a frame script.
type scriptStep struct {
	Action     string  `json:"action"`
	Node       string  `json:"node,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Z          float64 `json:"z,omitempty"`
	Angle      float64 `json:"angle,omitempty"` // degrees, for "rotate"
	Relaxation float64 `json:"relaxation,omitempty"`
	Frames     int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a frame script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays a sequence of local-transform edits across frames.
// Attach it to a Forest via SetScript; one step runs per Update, except
// "wait" which holds for the given number of frames.
//
// Actions:
//
//	move     set local position of node to (x, y, z)
//	offset   add (x, y, z) to local position of node
//	scale    set local scale of node to (x, y, z)
//	rotate   set local orientation to angle degrees about axis (x, y, z)
//	relax    set relaxation of node's DampedFollow
//	wait     do nothing for frames frames
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON frame script and returns a ScriptRunner ready to
// be attached to a Forest via SetScript.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "move", "offset", "scale", "rotate", "relax":
			if st.Node == "" {
				return nil, errors.Errorf("parse script: step %d (%s) has no node", i, st.Action)
			}
			if st.Action == "rotate" && (mgl64.Vec3{st.X, st.Y, st.Z}) == (mgl64.Vec3{}) {
				return nil, errors.Errorf("parse script: step %d (rotate) has a zero axis", i)
			}
		case "wait":
		default:
			return nil, errors.Errorf("parse script: step %d has unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Forest.Update.
func (r *ScriptRunner) step(f *Forest) error {
	if r.done {
		return nil
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	} else if err := r.apply(f, st); err != nil {
		return err
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}

func (r *ScriptRunner) apply(f *Forest, st scriptStep) error {
	n := f.Find(st.Node)
	if n == nil {
		return errors.Errorf("script step %d (%s): no node %q", r.cursor-1, st.Action, st.Node)
	}
	v := mgl64.Vec3{st.X, st.Y, st.Z}
	switch st.Action {
	case "move":
		n.SetLocalPosition(v)
	case "offset":
		n.Translate(v)
	case "scale":
		n.SetLocalScale(v)
	case "rotate":
		n.SetLocalRotation(v.Normalize(), mgl64.DegToRad(st.Angle))
	case "relax":
		d, ok := n.relation.(*DampedFollow)
		if !ok {
			return errors.Errorf("script step %d (relax): node %q is not damped", r.cursor-1, st.Node)
		}
		if !validRelaxation(st.Relaxation) {
			return errors.Errorf("script step %d (relax): invalid relaxation %v (must be >= 0)", r.cursor-1, st.Relaxation)
		}
		d.Relaxation = st.Relaxation
	}
	return nil
}
