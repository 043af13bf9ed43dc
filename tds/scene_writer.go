package tds

import (
	"fmt"
	"math"
	"strings"

	"github.com/binzume/tdsconv/geom"
)

// FileVersion is written to VERSION and MESH_VERSION.
const FileVersion = 3

// FromScene builds a chunk tree ready to be encoded.
func FromScene(s *Scene) (*Chunk, error) {
	ed := NewChunk(TagEditor, nil,
		NewChunk(TagMeshVersion, &Uint32Value{Value: FileVersion}))
	for _, m := range s.Materials {
		ed.Add(materialChunk(m))
	}
	ed.Add(NewChunk(TagMasterScale, &FloatValue{Value: s.MasterScale}))
	if s.Ambient != nil {
		ed.Add(ColorChunk(TagAmbientLight, *s.Ambient))
	}
	if s.BackgroundBitmap != "" {
		ed.Add(NewChunk(TagBackgroundBitmap, &Text{Value: s.BackgroundBitmap}))
	}
	if s.Background != nil {
		ed.Add(ColorChunk(TagBackgroundColor, *s.Background),
			NewChunk(TagUseBackgroundColor, &Flag{}))
	}
	for _, m := range s.Meshes {
		c, err := meshChunk(m)
		if err != nil {
			return nil, err
		}
		ed.Add(c)
	}
	for _, l := range s.Lights {
		ed.Add(lightChunk(l))
	}
	for _, c := range s.Cameras {
		ed.Add(cameraChunk(c))
	}

	root := NewChunk(TagMain, nil,
		NewChunk(TagVersion, &Uint32Value{Value: FileVersion}),
		ed)
	if len(s.Nodes) > 0 || s.End > 0 {
		root.Add(keyframerChunk(s))
	}
	return root, nil
}

func materialChunk(m *Material) *Chunk {
	c := NewChunk(TagMaterial, nil,
		NewChunk(TagMatName, &Text{Value: m.Name}),
		ColorChunk(TagMatAmbient, m.Ambient),
		ColorChunk(TagMatDiffuse, m.Diffuse),
		ColorChunk(TagMatSpecular, m.Specular),
		PercentChunk(TagMatShininess, m.Shininess),
		PercentChunk(TagMatShinStrength, m.ShinStrength),
		PercentChunk(TagMatTransparency, m.Transparency),
		PercentChunk(TagMatTransFalloff, m.TransFalloff),
		PercentChunk(TagMatReflectBlur, m.ReflectBlur),
		PercentChunk(TagMatSelfIllum, m.SelfIllum),
	)
	if m.TwoSided {
		c.Add(NewChunk(TagMatTwoSided, &Flag{}))
	}
	if m.Additive {
		c.Add(NewChunk(TagMatAdditive, &Flag{}))
	}
	if m.Wire {
		c.Add(NewChunk(TagMatWire, &Flag{}))
	}
	if m.WireSize != 0 {
		c.Add(NewChunk(TagMatWireSize, &FloatValue{Value: m.WireSize}))
	}
	c.Add(NewChunk(TagMatShading, &Uint16Value{Value: m.Shading}))
	for _, slot := range m.maps() {
		if t := *slot.ptr; t != nil {
			c.Add(textureMapChunk(slot.tag, t))
		}
	}
	return c
}

func textureMapChunk(tag Tag, t *TextureMap) *Chunk {
	return NewChunk(tag, nil,
		NewChunk(TagPercentInt, &Uint16Value{Value: uint16(clamp01(t.Strength)*100 + 0.5)}),
		NewChunk(TagMapFilename, &Text{Value: t.Filename}),
		NewChunk(TagMapFlags, &Uint16Value{Value: t.Flags}),
		NewChunk(TagMapBlur, &FloatValue{Value: t.Blur}),
		NewChunk(TagMapUScale, &FloatValue{Value: t.UScale}),
		NewChunk(TagMapVScale, &FloatValue{Value: t.VScale}),
		NewChunk(TagMapUOffset, &FloatValue{Value: t.UOffset}),
		NewChunk(TagMapVOffset, &FloatValue{Value: t.VOffset}),
		NewChunk(TagMapRotation, &FloatValue{Value: t.Rotation}),
	)
}

func meshChunk(m *Mesh) (*Chunk, error) {
	if len(m.Vertices) > math.MaxUint16 || len(m.Triangles) > math.MaxUint16 {
		return nil, fmt.Errorf("%s: %d vertices, %d faces: %w", m.Name, len(m.Vertices), len(m.Triangles), ErrTooMany)
	}
	if len(m.UVs) != 0 && len(m.UVs) != len(m.Vertices) {
		return nil, fmt.Errorf("%s: %d texture coordinates for %d vertices: %w", m.Name, len(m.UVs), len(m.Vertices), ErrIndexRange)
	}

	vl := &VertexList{Vertices: make([]geom.Vector3, len(m.Vertices))}
	for i, v := range m.Vertices {
		vl.Vertices[i] = *v
	}
	mesh := NewChunk(TagTriMesh, nil, NewChunk(TagVertexList, vl))
	if len(m.UVs) > 0 {
		mc := &MappingCoords{UVs: make([]geom.Vector2, len(m.UVs))}
		for i, uv := range m.UVs {
			mc.UVs[i] = *uv
		}
		mesh.Add(NewChunk(TagMappingCoords, mc))
	}
	if m.Mapping != nil {
		info := *m.Mapping
		mesh.Add(NewChunk(TagMappingInfo, &info))
	}
	mat := m.Matrix
	if mat == nil {
		mat = geom.NewMatrix4()
	}
	mesh.Add(NewChunk(TagLocalAxes, NewLocalAxes(mat)))
	if m.Color != 0 {
		mesh.Add(NewChunk(TagMeshColor, &Uint8Value{Value: m.Color}))
	}

	fl := &FaceList{Faces: make([]Face, len(m.Triangles))}
	groups := map[string][]uint16{}
	sg := &SmoothingGroups{Groups: make([]uint32, len(m.Triangles))}
	smooth := false
	for i, t := range m.Triangles {
		f := Face{Flags: t.Flags}
		for k, v := range t.V {
			if v < 0 || v >= len(m.Vertices) {
				return nil, fmt.Errorf("%s: face %d: vertex %d of %d: %w", m.Name, i, v, len(m.Vertices), ErrIndexRange)
			}
			f.V[k] = uint16(v)
		}
		fl.Faces[i] = f
		if t.Material != "" {
			groups[t.Material] = append(groups[t.Material], uint16(i))
		}
		sg.Groups[i] = t.Smoothing
		smooth = smooth || t.Smoothing != 0
	}
	faces := NewChunk(TagFaceList, fl)
	for _, name := range m.MaterialNames() {
		if name != "" {
			faces.Add(NewChunk(TagFaceMaterial, &FaceMaterial{Name: name, Faces: groups[name]}))
		}
	}
	if smooth {
		faces.Add(NewChunk(TagSmoothingGroups, sg))
	}
	if len(m.Triangles) > 0 {
		mesh.Add(faces)
	}

	obj := NewChunk(TagNamedObject, &Text{Value: m.Name})
	if m.Hidden && !strings.HasPrefix(m.Name, "$") {
		obj.Add(NewChunk(TagObjectHidden, &Flag{}))
	}
	return obj.Add(mesh), nil
}

func lightChunk(l *Light) *Chunk {
	lc := NewChunk(TagLight, &DirectLight{Position: l.Position},
		NewChunk(TagColorF, &ColorF{R: l.Color.R, G: l.Color.G, B: l.Color.B}))
	if l.Off {
		lc.Add(NewChunk(TagLightOff, &Flag{}))
	}
	if l.Attenuate {
		lc.Add(NewChunk(TagLightAttenuate, &Flag{}))
	}
	if l.InnerRange != 0 || l.OuterRange != 0 {
		lc.Add(NewChunk(TagLightInnerRange, &FloatValue{Value: l.InnerRange}),
			NewChunk(TagLightOuterRange, &FloatValue{Value: l.OuterRange}))
	}
	lc.Add(NewChunk(TagLightMultiplier, &FloatValue{Value: l.Multiplier}))
	if sp := l.Spot; sp != nil {
		sc := NewChunk(TagSpotlight, &Spotlight{Target: sp.Target, Hotspot: sp.Hotspot, Falloff: sp.Falloff})
		if sp.Shadowed {
			sc.Add(NewChunk(TagSpotShadowed, &Flag{}))
		}
		if sp.Raytrace {
			sc.Add(NewChunk(TagSpotRaytrace, &Flag{}))
		}
		sc.Add(NewChunk(TagSpotRoll, &FloatValue{Value: sp.Roll}))
		lc.Add(sc)
	}
	return NewChunk(TagNamedObject, &Text{Value: l.Name}, lc)
}

func cameraChunk(c *Camera) *Chunk {
	cc := NewChunk(TagCamera, &CameraSetup{Position: c.Position, Target: c.Target, Bank: c.Bank, Lens: c.Lens},
		NewChunk(TagCameraRanges, &Floats{Values: []float32{c.Near, c.Far}}))
	return NewChunk(TagNamedObject, &Text{Value: c.Name}, cc)
}

// trackOrder is the order tracks are written in.
var trackOrder = []Tag{
	TagPositionTrack, TagRotationTrack, TagScaleTrack, TagFOVTrack, TagRollTrack,
	TagColorTrack, TagHotspotTrack, TagFalloffTrack, TagHideTrack,
}

func keyframerChunk(s *Scene) *Chunk {
	kf := NewChunk(TagKeyframer, nil,
		NewChunk(TagKeyframeHeader, &KeyframeHeader{Revision: 5, Name: s.AnimName, Length: s.AnimLength}),
		NewChunk(TagKeyframeSegment, &Segment{Start: s.Start, End: s.End}),
		NewChunk(TagKeyframeCurrent, &Uint32Value{Value: s.CurrentFrame}),
	)
	for _, n := range s.Nodes {
		nc := NewChunk(n.Kind, nil,
			NewChunk(TagNodeID, &Uint16Value{Value: n.ID}),
			NewChunk(TagNodeHeader, &NodeHeader{Name: n.Name, Flags1: n.Flags1, Flags2: n.Flags2, Parent: int16(n.Parent)}),
		)
		if n.Instance != "" {
			nc.Add(NewChunk(TagInstanceName, &Text{Value: n.Instance}))
		}
		if n.Kind == TagObjectNode {
			nc.Add(NewChunk(TagPivot, &Floats{Values: []float32{n.Pivot.X, n.Pivot.Y, n.Pivot.Z}}))
		}
		for _, tag := range trackOrder {
			if t, ok := n.Tracks[tag]; ok {
				nc.Add(NewChunk(tag, t))
			}
		}
		kf.Add(nc)
	}
	return kf
}
