package converter

import (
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/binzume/tdsconv/geom"
	"github.com/binzume/tdsconv/gltfutil"
	"github.com/binzume/tdsconv/tds"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type GLTFToTDSOption struct {
	Scale float32 // Default: 1

	// ImageDir receives embedded images. They are not referenced if empty.
	ImageDir string
}

type gltfToTds struct {
	options   *GLTFToTDSOption
	src       *gltf.Document
	scene     *tds.Scene
	images    map[uint32]string
	materials []string
}

func NewGLTFToTDSConverter(options *GLTFToTDSOption) *gltfToTds {
	if options == nil {
		options = &GLTFToTDSOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	return &gltfToTds{
		options: options,
	}
}

func (c *gltfToTds) convertMaterial(index int, m *gltf.Material) *tds.Material {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("material%d", index)
	}
	if c.scene.Material(name) != nil {
		name = fmt.Sprintf("%s_%d", name, index)
	}
	mat := c.scene.AddMaterial(name)
	mat.TwoSided = m.DoubleSided
	if m.PBRMetallicRoughness != nil {
		col := m.PBRMetallicRoughness.BaseColorFactorOrDefault()
		mat.Diffuse = tds.Color{R: col[0], G: col[1], B: col[2]}
		mat.Ambient = tds.Color{R: col[0] * 0.2, G: col[1] * 0.2, B: col[2] * 0.2}
		mat.Transparency = 1 - col[3]
		mat.Shininess = 1 - m.PBRMetallicRoughness.RoughnessFactorOrDefault()
		if metallic := m.PBRMetallicRoughness.MetallicFactorOrDefault(); metallic > 0.5 {
			mat.Shading = tds.ShadingMetal
			mat.ShinStrength = metallic
		}
		if t := m.PBRMetallicRoughness.BaseColorTexture; t != nil && int(t.Index) < len(c.src.Textures) {
			if src := c.src.Textures[t.Index].Source; src != nil {
				if file, ok := c.images[*src]; ok {
					mat.Texture = tds.NewTextureMap(file)
				}
			}
		}
	}
	if e := m.EmissiveFactor; e != [3]float32{} {
		mat.SelfIllum = float32(math.Max(float64(e[0]), math.Max(float64(e[1]), float64(e[2]))))
	}
	return mat
}

func nodeMatrix(n *gltf.Node) *geom.Matrix4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return geom.NewMatrix4FromSlice(m[:])
	}
	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	return geom.NewTRSMatrix4(geom.NewVector3FromArray(t), geom.NewQuaternion(r[0], r[1], r[2], r[3]), geom.NewVector3FromArray(s))
}

// convertMesh appends the triangles of mesh transformed by mat. A new 3ds
// mesh is started whenever the vertex or face count would overflow.
func (c *gltfToTds) convertMesh(name string, mesh *gltf.Mesh, mat *geom.Matrix4) error {
	var meshes []*tds.Mesh
	var cur *tds.Mesh
	flip := mat.Det() < 0
	for _, p := range mesh.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			log.Println("Unsupported primitive mode:", name, p.Mode)
			continue
		}
		a, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		pos, err := modeler.ReadPosition(c.src, c.src.Accessors[a], [][3]float32{})
		if err != nil {
			return err
		}
		var texCoord [][2]float32
		if a, ok := p.Attributes["TEXCOORD_0"]; ok {
			texCoord, err = modeler.ReadTextureCoord(c.src, c.src.Accessors[a], [][2]float32{})
			if err != nil {
				return err
			}
		}
		var indices []uint32
		if p.Indices != nil {
			indices, err = modeler.ReadIndices(c.src, c.src.Accessors[*p.Indices], []uint32{})
			if err != nil {
				return err
			}
		} else {
			indices = make([]uint32, len(pos))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		material := ""
		if p.Material != nil && int(*p.Material) < len(c.materials) {
			material = c.materials[*p.Material]
		}

		var remap map[uint32]int
		for i := 0; i+2 < len(indices); i += 3 {
			if cur == nil || len(cur.Vertices)+3 > math.MaxUint16 || len(cur.Triangles) >= math.MaxUint16 {
				meshName := name
				if len(meshes) > 0 {
					meshName = fmt.Sprintf("%s_%d", name, len(meshes)+1)
				}
				cur = c.scene.AddMesh(meshName)
				meshes = append(meshes, cur)
				remap = map[uint32]int{}
			}
			if remap == nil {
				remap = map[uint32]int{}
			}
			var v [3]int
			for k, idx := range indices[i : i+3] {
				if int(idx) >= len(pos) {
					return fmt.Errorf("%s: index %d of %d: %w", name, idx, len(pos), tds.ErrIndexRange)
				}
				vi, ok := remap[idx]
				if !ok {
					w := mat.ApplyTo(geom.NewVector3FromArray(pos[idx]))
					vi = cur.AddVertex(w.X, w.Y, w.Z)
					if int(idx) < len(texCoord) {
						cur.SetUV(vi, texCoord[idx][0], 1-texCoord[idx][1])
					}
					remap[idx] = vi
				}
				v[k] = vi
			}
			if flip {
				v[1], v[2] = v[2], v[1]
			}
			cur.AddTriangle(v[0], v[1], v[2], tds.FaceEdgesShow).Material = material
		}
	}
	for _, m := range meshes {
		if len(m.UVs) > 0 {
			for len(m.UVs) < len(m.Vertices) {
				m.UVs = append(m.UVs, &geom.Vector2{})
			}
		}
	}
	return nil
}

func (c *gltfToTds) convertCamera(name string, cam *gltf.Camera, mat *geom.Matrix4) {
	if cam.Perspective == nil {
		log.Println("Unsupported camera:", name)
		return
	}
	pos := mat.ApplyTo(&geom.Vector3{})
	dir := mat.ApplyToDirection(&geom.Vector3{Z: -1})
	far := float32(1000)
	if cam.Perspective.Zfar != nil {
		far = *cam.Perspective.Zfar
	}
	tc := c.scene.AddCamera(name, *pos, *pos.Add(dir), fovToLens(cam.Perspective.Yfov))
	tc.Near = cam.Perspective.Znear * c.options.Scale
	tc.Far = far * c.options.Scale
}

func (c *gltfToTds) convertLight(name string, l *gltfutil.Light, mat *geom.Matrix4) {
	pos := mat.ApplyTo(&geom.Vector3{})
	tl := c.scene.AddLight(name, *pos)
	tl.Color = tds.Color{R: l.Color[0], G: l.Color[1], B: l.Color[2]}
	if l.Color == [3]float32{} {
		tl.Color = tds.Color{R: 1, G: 1, B: 1}
	}
	tl.Multiplier = l.Intensity
	if l.Range > 0 {
		tl.Attenuate = true
		tl.OuterRange = l.Range * c.options.Scale
	}
	if l.Type == gltfutil.LightSpot || l.Type == gltfutil.LightDirectional {
		dir := mat.ApplyToDirection(&geom.Vector3{Z: -1})
		sp := &tds.Spot{Target: *pos.Add(dir), Hotspot: 45, Falloff: 45}
		if l.Spot != nil {
			sp.Hotspot = l.Spot.InnerConeAngle * 2 * 180 / math.Pi
			sp.Falloff = l.Spot.OuterConeAngle * 2 * 180 / math.Pi
		}
		tl.Spot = sp
	}
}

func (c *gltfToTds) convertNode(index uint32, parent *geom.Matrix4, visited map[uint32]bool) error {
	if visited[index] || int(index) >= len(c.src.Nodes) {
		return nil
	}
	visited[index] = true
	n := c.src.Nodes[index]
	world := parent.Mul(nodeMatrix(n))
	mat := gltfToScene(c.options.Scale).Mul(world)

	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node%d", index)
	}
	if n.Mesh != nil && int(*n.Mesh) < len(c.src.Meshes) {
		if err := c.convertMesh(name, c.src.Meshes[*n.Mesh], mat); err != nil {
			return err
		}
	}
	if n.Camera != nil && int(*n.Camera) < len(c.src.Cameras) {
		c.convertCamera(name, c.src.Cameras[*n.Camera], mat)
	}
	if l, ok := gltfutil.NodeLight(c.src, n); ok {
		c.convertLight(name, l, mat)
	}
	for _, child := range n.Children {
		if err := c.convertNode(child, world, visited); err != nil {
			return err
		}
	}
	return nil
}

func (c *gltfToTds) Convert(src *gltf.Document) (*tds.Scene, error) {
	c.src = src
	c.scene = tds.NewScene()

	c.images = map[uint32]string{}
	if c.options.ImageDir != "" {
		images, err := gltfutil.ExtractImages(src, c.options.ImageDir)
		if err != nil {
			return nil, err
		}
		c.images = images
	} else {
		for i, img := range src.Images {
			if _, embedded, _ := gltfutil.ImageData(src, uint32(i)); !embedded && img.URI != "" {
				c.images[uint32(i)] = filepath.Base(img.URI)
			}
		}
	}

	c.materials = nil
	for i, mat := range src.Materials {
		c.materials = append(c.materials, c.convertMaterial(i, mat).Name)
	}

	var roots []uint32
	if len(src.Scenes) > 0 {
		s := uint32(0)
		if src.Scene != nil && int(*src.Scene) < len(src.Scenes) {
			s = *src.Scene
		}
		roots = src.Scenes[s].Nodes
	} else {
		for i := range src.Nodes {
			roots = append(roots, uint32(i))
		}
	}
	visited := map[uint32]bool{}
	for _, root := range roots {
		if err := c.convertNode(root, geom.NewMatrix4(), visited); err != nil {
			return nil, err
		}
	}
	return c.scene, nil
}
