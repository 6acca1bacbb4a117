package sprig

import (
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RigConfig is the YAML description of a forest. Each entry in Nodes is a
// root; nested Children are attached with their own relation.
//
//	nodes:
//	  - name: body
//	    position: [0, 0, 0]
//	    children:
//	      - name: boom
//	        relation: {kind: damped, relaxation: 8}
//	        position: [0, 2, -6]
//	        rotation: [0, 180, 0]
type RigConfig struct {
	Nodes []RigNode `yaml:"nodes"`
}

// RigNode describes one node. Rotation is XYZ Euler angles in degrees and is
// ignored when Orientation (x, y, z, w) is set. Scale defaults to (1, 1, 1).
type RigNode struct {
	Name        string       `yaml:"name"`
	Relation    *RigRelation `yaml:"relation,omitempty"`
	Position    []float64    `yaml:"position,omitempty"`
	Scale       []float64    `yaml:"scale,omitempty"`
	Rotation    []float64    `yaml:"rotation,omitempty"`
	Orientation []float64    `yaml:"orientation,omitempty"`
	EntityID    uint32       `yaml:"entity,omitempty"`
	Children    []RigNode    `yaml:"children,omitempty"`
}

// RigRelation selects a relation kind by name (see ParseRelationKind).
type RigRelation struct {
	Kind       string  `yaml:"kind"`
	Relaxation float64 `yaml:"relaxation,omitempty"`
}

// LoadRigFile reads a YAML rig from path and builds a Forest.
func LoadRigFile(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open rig")
	}
	defer f.Close()
	return LoadRig(f)
}

// LoadRig decodes a YAML rig and builds a Forest from it.
func LoadRig(r io.Reader) (*Forest, error) {
	var cfg RigConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode rig")
	}
	return cfg.Build()
}

// Build validates the config and creates its nodes. Node names must be
// unique and non-empty. Children without a relation default to rigid.
func (cfg *RigConfig) Build() (*Forest, error) {
	if len(cfg.Nodes) == 0 {
		return nil, errors.New("rig has no nodes")
	}
	seen := make(map[string]bool)
	forest := NewForest()
	for i := range cfg.Nodes {
		root, err := cfg.Nodes[i].build(true, seen)
		if err != nil {
			return nil, err
		}
		forest.AddRoot(root)
	}
	return forest, nil
}

func (rn *RigNode) build(isRoot bool, seen map[string]bool) (*Node, error) {
	if rn.Name == "" {
		return nil, errors.New("rig node without a name")
	}
	if seen[rn.Name] {
		return nil, errors.Errorf("duplicate node name %q", rn.Name)
	}
	seen[rn.Name] = true

	rel, err := rn.relation(isRoot)
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", rn.Name)
	}
	n := NewNode(rn.Name, rel)
	n.EntityID = rn.EntityID

	if rn.Position != nil {
		p, err := vec3Field(rn.Position, "position")
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", rn.Name)
		}
		n.SetLocalPosition(p)
	}
	if rn.Scale != nil {
		s, err := vec3Field(rn.Scale, "scale")
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", rn.Name)
		}
		n.SetLocalScale(s)
	}
	switch {
	case rn.Orientation != nil:
		if len(rn.Orientation) != 4 {
			return nil, errors.Errorf("node %q: orientation needs 4 components, got %d", rn.Name, len(rn.Orientation))
		}
		o := rn.Orientation
		n.SetLocalOrientation(mgl64.Quat{W: o[3], V: mgl64.Vec3{o[0], o[1], o[2]}})
	case rn.Rotation != nil:
		e, err := vec3Field(rn.Rotation, "rotation")
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", rn.Name)
		}
		n.SetLocalOrientation(mgl64.AnglesToQuat(
			mgl64.DegToRad(e[0]), mgl64.DegToRad(e[1]), mgl64.DegToRad(e[2]), mgl64.XYZ))
	}

	for i := range rn.Children {
		child, err := rn.Children[i].build(false, seen)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (rn *RigNode) relation(isRoot bool) (Relation, error) {
	if rn.Relation == nil {
		if isRoot {
			return nil, nil
		}
		return Rigid{}, nil
	}
	kind, err := ParseRelationKind(rn.Relation.Kind)
	if err != nil {
		return nil, err
	}
	if !validRelaxation(rn.Relation.Relaxation) {
		return nil, errors.Errorf("invalid relaxation %v (must be >= 0)", rn.Relation.Relaxation)
	}
	return NewRelation(kind, rn.Relation.Relaxation), nil
}

func vec3Field(v []float64, field string) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, errors.Errorf("%s needs 3 components, got %d", field, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
