package converter

import (
	"log"

	"github.com/binzume/tdsconv/geom"
	"github.com/binzume/tdsconv/tds"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// FramesPerSecond of 3ds keyframer tracks.
var FramesPerSecond float32 = 30

func keysEquals(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type channelWriter struct {
	doc       *gltf.Document
	a         *gltf.Animation
	prevKeys  []uint32
	prevInput uint32
}

func (w *channelWriter) input(frames []uint32) uint32 {
	if w.prevKeys != nil && keysEquals(frames, w.prevKeys) {
		return w.prevInput
	}
	keys := make([]float32, len(frames))
	for i, f := range frames {
		keys[i] = float32(f) / FramesPerSecond
	}
	acc := modeler.WriteAccessor(w.doc, gltf.TargetArrayBuffer, keys)
	w.doc.Accessors[acc].Min = []float32{keys[0]}
	w.doc.Accessors[acc].Max = []float32{keys[len(keys)-1]}
	w.prevKeys, w.prevInput = frames, acc
	return acc
}

func (w *channelWriter) add(node uint32, path gltf.TRSProperty, frames []uint32, output uint32) {
	w.a.Samplers = append(w.a.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(w.input(frames)),
		Output:        gltf.Index(output),
		Interpolation: gltf.InterpolationLinear,
	})
	w.a.Channels = append(w.a.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(w.a.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

// useTRS replaces the matrix of an animated node with translation, rotation
// and scale.
func useTRS(node *gltf.Node) {
	if node.Matrix == gltf.DefaultMatrix || node.Matrix == [16]float32{} {
		return
	}
	mat := geom.Matrix4(node.Matrix)
	t, r, s := mat.Decompose()
	node.Translation = t.ToArray()
	node.Rotation = r.ToArray()
	node.Scale = s.ToArray()
	node.Matrix = gltf.DefaultMatrix
}

// AddAnimation converts the keyframer tracks of scene into an animation of
// the nodes named in nodes. Positions are scaled by scale.
func AddAnimation(doc *gltf.Document, scene *tds.Scene, nodes map[string]uint32, scale float32) {
	a := &gltf.Animation{Name: scene.AnimName}
	w := &channelWriter{doc: doc, a: a}

	animated := map[uint16]uint32{}
	for _, n := range scene.Nodes {
		if n.Kind == tds.TagTargetNode || n.Kind == tds.TagSpotTargetNode || n.Kind == tds.TagAmbientNode {
			continue
		}
		ni, ok := nodes[n.Name]
		if !ok {
			if len(n.Tracks) > 0 {
				log.Println("Animation target not found:", n.Name)
			}
			continue
		}
		channels := len(a.Channels)

		if frames, vs := n.Tracks[tds.TagPositionTrack].Vector3Keys(); len(frames) > 0 {
			positions := make([][3]float32, len(vs))
			for i, v := range vs {
				positions[i] = toYUp(v, scale).ToArray()
			}
			w.add(ni, gltf.TRSTranslation, frames, modeler.WritePosition(doc, positions))
		}
		if frames, qs := n.Tracks[tds.TagRotationTrack].RotationKeys(); len(frames) > 0 {
			rotations := make([][4]float32, len(qs))
			for i, q := range qs {
				rotations[i] = [4]float32{q.X, q.Z, -q.Y, q.W}
			}
			w.add(ni, gltf.TRSRotation, frames, modeler.WriteTangent(doc, rotations))
		}
		if frames, vs := n.Tracks[tds.TagScaleTrack].Vector3Keys(); len(frames) > 0 {
			scales := make([][3]float32, len(vs))
			for i, v := range vs {
				scales[i] = [3]float32{v.X, v.Z, v.Y}
			}
			w.add(ni, gltf.TRSScale, frames, modeler.WritePosition(doc, scales))
		}

		if len(a.Channels) > channels {
			useTRS(doc.Nodes[ni])
			animated[n.ID] = ni
			if n.Pivot != (geom.Vector3{}) {
				log.Println("TODO pivot:", n.Name, n.Pivot)
			}
		}
	}

	// tracks of a child node are relative to its parent
	for _, n := range scene.Nodes {
		child, ok := animated[n.ID]
		if !ok || n.Parent == tds.NoParent {
			continue
		}
		if parent, ok := animated[uint16(n.Parent)]; ok && parent != child {
			reparent(doc, child, parent)
		}
	}

	if len(a.Channels) > 0 {
		doc.Animations = append(doc.Animations, a)
	}
}

func reparent(doc *gltf.Document, child, parent uint32) {
	roots := doc.Scenes[0].Nodes
	for i, n := range roots {
		if n == child {
			doc.Scenes[0].Nodes = append(roots[:i:i], roots[i+1:]...)
			doc.Nodes[parent].Children = append(doc.Nodes[parent].Children, child)
			return
		}
	}
}
