package sprig

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// LoadGLTF opens a .gltf or .glb file and imports its default scene (or the
// first scene when none is marked default).
func LoadGLTF(path string) (*Forest, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %q", path)
	}
	scene := 0
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	}
	return ImportGLTF(doc, scene)
}

// ImportGLTF builds a Forest from one scene of a glTF document. Every scene
// root becomes a forest root without a relation; every other node gets a
// Rigid relation. Node transforms given as a matrix are decomposed into
// translation, rotation, and scale (shear is dropped).
func ImportGLTF(doc *gltf.Document, scene int) (*Forest, error) {
	if scene < 0 || scene >= len(doc.Scenes) {
		return nil, errors.Errorf("gltf scene %d out of range (%d scenes)", scene, len(doc.Scenes))
	}
	imp := gltfImporter{doc: doc, built: make(map[uint32]bool)}
	forest := NewForest()
	for _, idx := range doc.Scenes[scene].Nodes {
		root, err := imp.node(idx, nil)
		if err != nil {
			return nil, err
		}
		forest.AddRoot(root)
	}
	return forest, nil
}

type gltfImporter struct {
	doc   *gltf.Document
	built map[uint32]bool
}

func (imp *gltfImporter) node(idx uint32, rel Relation) (*Node, error) {
	if int(idx) >= len(imp.doc.Nodes) {
		return nil, errors.Errorf("gltf node index %d out of range", idx)
	}
	if imp.built[idx] {
		return nil, errors.Errorf("gltf node %d is referenced more than once", idx)
	}
	imp.built[idx] = true

	src := imp.doc.Nodes[idx]
	n := NewNode(src.Name, rel)
	n.UserData = idx
	pos, orient, scale := gltfNodeTRS(src)
	n.SetLocalPosition(pos)
	n.SetLocalOrientation(orient)
	n.SetLocalScale(scale)

	for _, c := range src.Children {
		child, err := imp.node(c, Rigid{})
		if err != nil {
			return nil, errors.Wrapf(err, "gltf node %d (%q)", idx, src.Name)
		}
		n.AddChild(child)
	}
	return n, nil
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func gltfNodeTRS(src *gltf.Node) (pos mgl64.Vec3, orient mgl64.Quat, scale mgl64.Vec3) {
	m := src.MatrixOrDefault()
	if m != identityMatrix {
		var mat mgl64.Mat4
		for i, v := range m {
			mat[i] = float64(v)
		}
		return decomposeMatrix(mat)
	}
	t := src.TranslationOrDefault()
	r := src.RotationOrDefault()
	s := src.ScaleOrDefault()
	pos = mgl64.Vec3{float64(t[0]), float64(t[1]), float64(t[2])}
	orient = mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}
	scale = mgl64.Vec3{float64(s[0]), float64(s[1]), float64(s[2])}
	return pos, orient, scale
}

// decomposeMatrix splits a column-major TRS matrix. A negative determinant
// is folded into the X scale.
func decomposeMatrix(m mgl64.Mat4) (pos mgl64.Vec3, orient mgl64.Quat, scale mgl64.Vec3) {
	pos = mgl64.Vec3{m[12], m[13], m[14]}
	cols := [3]mgl64.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	scale = mgl64.Vec3{cols[0].Len(), cols[1].Len(), cols[2].Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	rot := mgl64.Ident4()
	for c := 0; c < 3; c++ {
		if scale[c] == 0 {
			continue
		}
		col := cols[c].Mul(1 / scale[c])
		rot.SetCol(c, col.Vec4(0))
	}
	orient = mgl64.Mat4ToQuat(rot).Normalize()
	return pos, orient, scale
}

// ExportGLTF writes the forest's local transforms into a new glTF document
// with a single scene. Relations are not represented in glTF; every parent
// link is exported as plain node hierarchy.
func (f *Forest) ExportGLTF() *gltf.Document {
	doc := gltf.NewDocument()
	index := make(map[*Node]uint32)
	f.Walk(func(n *Node) bool {
		p, q, s := n.transform.LocalPosition, n.transform.LocalOrientation, n.transform.LocalScale
		index[n] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        n.Name,
			Translation: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])},
			Rotation:    [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)},
			Scale:       [3]float32{float32(s[0]), float32(s[1]), float32(s[2])},
		})
		return true
	})
	f.Walk(func(n *Node) bool {
		dst := doc.Nodes[index[n]]
		for _, c := range n.children {
			dst.Children = append(dst.Children, index[c])
		}
		return true
	})
	for _, r := range f.Roots() {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index[r])
	}
	return doc
}

// SaveGLTF exports the forest and writes it to path. The extension picks
// the container: .glb is binary, anything else is JSON.
func (f *Forest) SaveGLTF(path string) error {
	save := gltf.Save
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		save = gltf.SaveBinary
	}
	if err := save(f.ExportGLTF(), path); err != nil {
		return errors.Wrapf(err, "save gltf %q", path)
	}
	return nil
}
