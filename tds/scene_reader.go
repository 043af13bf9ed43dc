package tds

import (
	"fmt"
	"log"
	"strings"

	"github.com/binzume/tdsconv/geom"
)

// ToScene interprets a decoded chunk tree.
func ToScene(root *Chunk) (*Scene, error) {
	if root == nil || root.Tag != TagMain {
		return nil, ErrNotMain
	}
	s := NewScene()
	if ed := root.Child(TagEditor); ed != nil {
		if err := s.readEditor(ed); err != nil {
			return nil, err
		}
	}
	if kf := root.Child(TagKeyframer); kf != nil {
		s.readKeyframer(kf)
	}
	return s, nil
}

func (s *Scene) readEditor(ed *Chunk) error {
	if v, ok := ed.Child(TagMasterScale).Float(); ok {
		s.MasterScale = v
	}
	if c, ok := ed.Child(TagAmbientLight).Color(); ok {
		s.Ambient = &c
	}
	if c, ok := ed.Child(TagBackgroundColor).Color(); ok {
		s.Background = &c
	}
	s.BackgroundBitmap = ed.Child(TagBackgroundBitmap).Text()

	for _, ch := range ed.Children {
		switch ch.Tag {
		case TagMaterial:
			m := readMaterial(ch)
			if s.Material(m.Name) != nil {
				log.Printf("duplicate material %q ignored", m.Name)
				continue
			}
			s.Materials = append(s.Materials, m)
		case TagNamedObject:
			if err := s.readObject(ch); err != nil {
				return err
			}
		}
	}
	return nil
}

func readMaterial(c *Chunk) *Material {
	m := &Material{Name: c.Child(TagMatName).Text(), Shading: ShadingPhong}
	m.Ambient, _ = c.Child(TagMatAmbient).Color()
	m.Diffuse, _ = c.Child(TagMatDiffuse).Color()
	m.Specular, _ = c.Child(TagMatSpecular).Color()
	m.Shininess, _ = c.Child(TagMatShininess).Percent()
	m.ShinStrength, _ = c.Child(TagMatShinStrength).Percent()
	m.Transparency, _ = c.Child(TagMatTransparency).Percent()
	m.TransFalloff, _ = c.Child(TagMatTransFalloff).Percent()
	m.ReflectBlur, _ = c.Child(TagMatReflectBlur).Percent()
	m.SelfIllum, _ = c.Child(TagMatSelfIllum).Percent()
	m.TwoSided = c.Child(TagMatTwoSided) != nil
	m.Additive = c.Child(TagMatAdditive) != nil
	m.Wire = c.Child(TagMatWire) != nil
	m.WireSize, _ = c.Child(TagMatWireSize).Float()
	if p, ok := c.Child(TagMatShading).payload().(*Uint16Value); ok {
		m.Shading = p.Value
	}
	for _, slot := range m.maps() {
		if mc := c.Child(slot.tag); mc != nil {
			*slot.ptr = readTextureMap(mc)
		}
	}
	return m
}

func readTextureMap(c *Chunk) *TextureMap {
	t := NewTextureMap(c.Child(TagMapFilename).Text())
	if v, ok := c.Percent(); ok {
		t.Strength = v
	}
	if p, ok := c.Child(TagMapFlags).payloadUint16(); ok {
		t.Flags = p
	}
	for tag, dst := range map[Tag]*float32{
		TagMapBlur:     &t.Blur,
		TagMapUScale:   &t.UScale,
		TagMapVScale:   &t.VScale,
		TagMapUOffset:  &t.UOffset,
		TagMapVOffset:  &t.VOffset,
		TagMapRotation: &t.Rotation,
	} {
		if v, ok := c.Child(tag).Float(); ok {
			*dst = v
		}
	}
	return t
}

func (c *Chunk) payloadUint16() (uint16, bool) {
	if c == nil {
		return 0, false
	}
	p, ok := c.Payload.(*Uint16Value)
	if !ok {
		return 0, false
	}
	return p.Value, true
}

func (s *Scene) readObject(c *Chunk) error {
	name := c.Text()
	hidden := strings.HasPrefix(name, "$") || c.Child(TagObjectHidden) != nil
	for _, ch := range c.Children {
		switch ch.Tag {
		case TagTriMesh:
			m, err := readMesh(name, ch)
			if err != nil {
				return err
			}
			m.Hidden = hidden
			s.Meshes = append(s.Meshes, m)
			return nil
		case TagLight:
			s.Lights = append(s.Lights, readLight(name, ch))
			return nil
		case TagCamera:
			s.Cameras = append(s.Cameras, readCamera(name, ch))
			return nil
		}
	}
	return nil
}

func readMesh(name string, c *Chunk) (*Mesh, error) {
	m := &Mesh{Name: name, Matrix: geom.NewMatrix4()}
	if p, ok := c.Child(TagVertexList).payload().(*VertexList); ok {
		m.Vertices = make([]*geom.Vector3, len(p.Vertices))
		for i := range p.Vertices {
			v := p.Vertices[i]
			m.Vertices[i] = &v
		}
	}
	if p, ok := c.Child(TagMappingCoords).payload().(*MappingCoords); ok {
		if len(p.UVs) == len(m.Vertices) {
			m.UVs = make([]*geom.Vector2, len(p.UVs))
			for i := range p.UVs {
				uv := p.UVs[i]
				m.UVs[i] = &uv
			}
		} else {
			log.Printf("%s: %d texture coordinates for %d vertices, ignored", name, len(p.UVs), len(m.Vertices))
		}
	}
	if p, ok := c.Child(TagLocalAxes).payload().(*LocalAxes); ok {
		m.Matrix = p.Matrix()
	}
	if p, ok := c.Child(TagMeshColor).payload().(*Uint8Value); ok {
		m.Color = p.Value
	}
	if p, ok := c.Child(TagMappingInfo).payload().(*MappingInfo); ok {
		info := *p
		m.Mapping = &info
	}

	fc := c.Child(TagFaceList)
	faces, ok := fc.faceList()
	if !ok {
		return m, nil
	}
	m.Triangles = make([]*Triangle, len(faces.Faces))
	for i, f := range faces.Faces {
		t := &Triangle{Flags: f.Flags}
		for k, v := range f.V {
			if int(v) >= len(m.Vertices) {
				return nil, fmt.Errorf("%s: face %d: vertex %d of %d: %w", name, i, v, len(m.Vertices), ErrIndexRange)
			}
			t.V[k] = int(v)
		}
		m.Triangles[i] = t
	}
	for _, ch := range fc.ChildrenByTag(TagFaceMaterial) {
		g, ok := ch.Payload.(*FaceMaterial)
		if !ok {
			continue
		}
		for _, fi := range g.Faces {
			if int(fi) >= len(m.Triangles) {
				return nil, fmt.Errorf("%s: material %q: face %d of %d: %w", name, g.Name, fi, len(m.Triangles), ErrIndexRange)
			}
			m.Triangles[fi].Material = g.Name
		}
	}
	if sg, ok := fc.Child(TagSmoothingGroups).payload().(*SmoothingGroups); ok {
		for i, g := range sg.Groups {
			if i < len(m.Triangles) {
				m.Triangles[i].Smoothing = g
			}
		}
	}
	return m, nil
}

func readLight(name string, c *Chunk) *Light {
	l := &Light{Name: name, Color: Color{1, 1, 1}, Multiplier: 1}
	if p, ok := c.Payload.(*DirectLight); ok {
		l.Position = p.Position
	}
	if col, ok := c.Color(); ok {
		l.Color = col
	}
	l.Off = c.Child(TagLightOff) != nil
	l.Attenuate = c.Child(TagLightAttenuate) != nil
	if v, ok := c.Child(TagLightMultiplier).Float(); ok {
		l.Multiplier = v
	}
	l.InnerRange, _ = c.Child(TagLightInnerRange).Float()
	l.OuterRange, _ = c.Child(TagLightOuterRange).Float()
	if sc := c.Child(TagSpotlight); sc != nil {
		p, _ := sc.Payload.(*Spotlight)
		if p == nil {
			p = &Spotlight{}
		}
		sp := &Spot{Target: p.Target, Hotspot: p.Hotspot, Falloff: p.Falloff}
		sp.Roll, _ = sc.Child(TagSpotRoll).Float()
		sp.Shadowed = sc.Child(TagSpotShadowed) != nil
		sp.Raytrace = sc.Child(TagSpotRaytrace) != nil
		l.Spot = sp
	}
	return l
}

func readCamera(name string, c *Chunk) *Camera {
	p, _ := c.Payload.(*CameraSetup)
	if p == nil {
		p = &CameraSetup{}
	}
	cam := &Camera{Name: name, Position: p.Position, Target: p.Target, Bank: p.Bank, Lens: p.Lens}
	if r, ok := c.Child(TagCameraRanges).payload().(*Floats); ok {
		cam.Near, cam.Far = r.Values[0], r.Values[1]
	}
	return cam
}

func (s *Scene) readKeyframer(kf *Chunk) {
	if p, ok := kf.Child(TagKeyframeHeader).payload().(*KeyframeHeader); ok {
		s.AnimName, s.AnimLength = p.Name, p.Length
	}
	if p, ok := kf.Child(TagKeyframeSegment).payload().(*Segment); ok {
		s.Start, s.End = p.Start, p.End
	}
	if p, ok := kf.Child(TagKeyframeCurrent).payload().(*Uint32Value); ok {
		s.CurrentFrame = p.Value
	}
	for _, ch := range kf.Children {
		switch ch.Tag {
		case TagAmbientNode, TagObjectNode, TagCameraNode, TagTargetNode, TagOmniNode, TagSpotTargetNode, TagSpotNode:
			s.Nodes = append(s.Nodes, readNode(ch, len(s.Nodes)))
		}
	}
}

func readNode(c *Chunk, index int) *Node {
	n := &Node{ID: uint16(index), Kind: c.Tag, Parent: NoParent, Tracks: map[Tag]*Track{}}
	if id, ok := c.Child(TagNodeID).payloadUint16(); ok {
		n.ID = id
	}
	if h, ok := c.Child(TagNodeHeader).payload().(*NodeHeader); ok {
		n.Name, n.Flags1, n.Flags2, n.Parent = h.Name, h.Flags1, h.Flags2, int(h.Parent)
	}
	n.Instance = c.Child(TagInstanceName).Text()
	if p, ok := c.Child(TagPivot).payload().(*Floats); ok {
		n.Pivot = geom.Vector3{X: p.Values[0], Y: p.Values[1], Z: p.Values[2]}
	}
	for _, ch := range c.Children {
		if t, ok := ch.Payload.(*Track); ok {
			n.Tracks[ch.Tag] = t
		}
	}
	return n
}
