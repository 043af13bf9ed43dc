package converter

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/tdsconv/geom"
	"github.com/binzume/tdsconv/gltfutil"
	"github.com/binzume/tdsconv/tds"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const unlitMaterialExt = "KHR_materials_unlit"

type TDSToGLTFOption struct {
	Scale      float32 // Default: 1
	ForceUnlit bool

	TextureReCompress      bool
	TextureBytesThreshold  int64 // 0: unlimited
	TextureResolutionLimit int   // 0: unlimited
	TextureScale           float32

	// IncludeHidden converts the geometry of hidden objects such as
	// $$$DUMMY. Otherwise they become empty nodes.
	IncludeHidden bool
}

type tdsToGltf struct {
	*TDSToGLTFOption
	*gltf.Document
	scene     *tds.Scene
	textures  *textureCache
	materials map[string]uint32

	// NodeByName maps object names to node indices.
	NodeByName map[string]uint32
}

func NewTDSToGLTFConverter(options *TDSToGLTFOption) *tdsToGltf {
	if options == nil {
		options = &TDSToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	if options.TextureScale == 0 {
		options.TextureScale = 1.0
	}
	return &tdsToGltf{
		TDSToGLTFOption: options,
		Document:        gltf.NewDocument(),
		materials:       map[string]uint32{},
		NodeByName:      map[string]uint32{},
	}
}

func (c *tdsToGltf) addTexture(texture string) (*uint32, error) {
	t := c.textures.get(texture)
	if t.id != nil {
		return t.id, nil
	}
	ext := strings.ToLower(filepath.Ext(t.path))

	encode := c.TextureReCompress || c.TextureResolutionLimit > 0
	if c.TextureBytesThreshold > 0 {
		stat, err := os.Stat(t.path)
		if err != nil {
			return nil, err
		}
		if stat.Size() > c.TextureBytesThreshold {
			encode = true
		}
	}

	var mimeType string
	if ext == ".jpg" || ext == ".jpeg" {
		mimeType = "image/jpeg"
	} else if ext == ".png" {
		mimeType = "image/png"
	} else {
		mimeType = "image/png"
		encode = true
	}

	var r io.Reader
	if encode {
		r2, err := c.textures.scaleTexture(texture, mimeType, c.TextureScale, c.TextureResolutionLimit)
		if err != nil {
			return nil, err
		}
		r = r2
	} else {
		f, err := os.Open(t.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	img, err := modeler.WriteImage(c.Document, filepath.Base(t.path), mimeType, r)
	if err != nil {
		return nil, err
	}
	c.Buffers[0].ByteLength = uint32(len(c.Buffers[0].Data)) // avoid AddImage bug
	c.Textures = append(c.Textures,
		&gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(img)})

	t.id = gltf.Index(uint32(len(c.Textures)) - 1)

	return t.id, nil
}

func (c *tdsToGltf) convertMaterial(mat *tds.Material) *gltf.Material {
	rf := 1 - clamp01(mat.Shininess)
	var mf float32
	if mat.Shading == tds.ShadingMetal {
		mf = clamp01(mat.ShinStrength)
	}
	alpha := 1 - clamp01(mat.Transparency)
	col := mat.Diffuse
	mm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{col.R, col.G, col.B, alpha},
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
		DoubleSided: mat.TwoSided,
	}
	if mat.SelfIllum > 0 {
		s := clamp01(mat.SelfIllum)
		mm.EmissiveFactor = [3]float32{col.R * s, col.G * s, col.B * s}
	}

	var texture string
	if mat.Texture != nil {
		texture = mat.Texture.Filename
	}
	if alpha < 0.99 || mat.OpacityMap != nil || c.textures.hasAlpha(texture) {
		mm.AlphaMode = gltf.AlphaBlend
	}
	if c.ForceUnlit {
		mm.Extensions = map[string]interface{}{unlitMaterialExt: map[string]string{}}
	}

	if texture != "" {
		if tex, err := c.addTexture(texture); err == nil {
			mm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
				Index: *tex,
			}
			if mat.Texture.Strength >= 0.99 {
				mm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, alpha}
			}
		} else {
			log.Print("Texture read error:", err)
		}
	}
	return mm
}

// material returns the index of the material named name, converting it on
// first use. Unknown names get a default material.
func (c *tdsToGltf) material(name string) uint32 {
	if i, ok := c.materials[name]; ok {
		return i
	}
	mat := c.scene.Material(name)
	if mat == nil {
		if name != "" {
			log.Printf("material %q not found", name)
		}
		mat = tds.NewMaterial(name)
	}
	mm := c.convertMaterial(mat)
	if mm.Name == "" {
		mm.Name = "default"
	}
	i := uint32(len(c.Document.Materials))
	c.Document.Materials = append(c.Document.Materials, mm)
	c.materials[name] = i
	return i
}

// localMatrix returns the local axes of the mesh, or identity if they
// cannot be inverted.
func localMatrix(m *tds.Mesh) *geom.Matrix4 {
	if m.Matrix == nil || m.Matrix.IsIdentity() || math.Abs(float64(m.Matrix.Det())) < 1e-12 {
		return geom.NewMatrix4()
	}
	return m.Matrix
}

// ConvertMesh builds a mesh in the local space of m. Vertices are split where
// corners need different normals.
func (c *tdsToGltf) ConvertMesh(m *tds.Mesh) *gltf.Mesh {
	local := localMatrix(m)
	toLocal := sceneToGLTF(c.Scale).Mul(local.Inverse())
	normalMat := zUpToYUp.Mul(local.Transposed())
	useTexcoord := len(m.UVs) > 0 && len(m.UVs) == len(m.Vertices)

	type corner struct {
		v int
		n [3]float32
	}
	index := map[corner]uint32{}
	var positions, normals [][3]float32
	var texcoords [][2]float32
	var materials []string
	indices := map[string][]uint32{}

	cornerNormals := m.Normals()
	for i, t := range m.Triangles {
		var tri [3]uint32
		for k, vi := range t.V {
			n := normalMat.ApplyToDirection(cornerNormals[i][k]).Normalize().ToArray()
			key := corner{vi, n}
			idx, ok := index[key]
			if !ok {
				idx = uint32(len(positions))
				index[key] = idx
				positions = append(positions, toLocal.ApplyTo(m.Vertices[vi]).ToArray())
				normals = append(normals, n)
				if useTexcoord {
					uv := m.UVs[vi]
					texcoords = append(texcoords, [2]float32{uv.X, 1 - uv.Y})
				}
			}
			tri[k] = idx
		}
		if _, exists := indices[t.Material]; !exists {
			materials = append(materials, t.Material)
		}
		indices[t.Material] = append(indices[t.Material], tri[:]...)
	}
	if len(positions) == 0 {
		return &gltf.Mesh{Name: m.Name}
	}

	attributes := map[string]uint32{}
	attributes["POSITION"] = modeler.WritePosition(c.Document, positions)
	if useTexcoord {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(c.Document, texcoords)
	}
	if !c.ForceUnlit {
		attributes["NORMAL"] = modeler.WriteNormal(c.Document, normals)
	}

	// make primitive for each materials
	var primitives []*gltf.Primitive
	for _, mat := range materials {
		primitives = append(primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(c.Document, indices[mat])),
			Attributes: attributes,
			Material:   gltf.Index(c.material(mat)),
		})
	}
	return &gltf.Mesh{Name: m.Name, Primitives: primitives}
}

func (c *tdsToGltf) addNode(node *gltf.Node) uint32 {
	i := uint32(len(c.Nodes))
	c.Nodes = append(c.Nodes, node)
	c.Scenes[0].Nodes = append(c.Scenes[0].Nodes, i)
	if _, exists := c.NodeByName[node.Name]; !exists {
		c.NodeByName[node.Name] = i
	}
	return i
}

func (c *tdsToGltf) convertLight(l *tds.Light) *gltf.Node {
	node := &gltf.Node{Name: l.Name}
	pos := toYUp(&l.Position, c.Scale)
	light := &gltfutil.Light{
		Name:      l.Name,
		Type:      gltfutil.LightPoint,
		Color:     [3]float32{l.Color.R, l.Color.G, l.Color.B},
		Intensity: l.Multiplier,
	}
	if l.Off {
		light.Intensity = 0
	}
	if l.Attenuate && l.OuterRange > 0 {
		light.Range = l.OuterRange * c.Scale
	}
	if sp := l.Spot; sp != nil {
		node.Matrix = *lookAt(pos, toYUp(&sp.Target, c.Scale), sp.Roll)
		light.Type = gltfutil.LightSpot
		light.Spot = &gltfutil.Spot{
			InnerConeAngle: sp.Hotspot / 2 * math.Pi / 180,
			OuterConeAngle: sp.Falloff / 2 * math.Pi / 180,
		}
		if light.Spot.InnerConeAngle >= light.Spot.OuterConeAngle {
			light.Spot.InnerConeAngle = 0
		}
	} else {
		node.Translation = pos.ToArray()
	}
	gltfutil.AddLight(c.Document, node, light)
	return node
}

func (c *tdsToGltf) convertCamera(cam *tds.Camera) *gltf.Node {
	znear := cam.Near * c.Scale
	if znear <= 0 {
		znear = 0.01 * c.Scale
	}
	zfar := cam.Far * c.Scale
	camera := &gltf.Camera{
		Name: cam.Name,
		Perspective: &gltf.Perspective{
			Yfov:  lensToFOV(cam.Lens),
			Znear: znear,
		},
	}
	if zfar > znear {
		camera.Perspective.Zfar = &zfar
	}
	c.Cameras = append(c.Cameras, camera)
	return &gltf.Node{
		Name:   cam.Name,
		Camera: gltf.Index(uint32(len(c.Cameras) - 1)),
		Matrix: *lookAt(toYUp(&cam.Position, c.Scale), toYUp(&cam.Target, c.Scale), cam.Bank),
	}
}

func (c *tdsToGltf) Convert(scene *tds.Scene, textureDir string) (*gltf.Document, error) {
	c.scene = scene
	c.textures = newTextureCache(textureDir)

	a := sceneToGLTF(c.Scale)
	for _, m := range scene.Meshes {
		node := &gltf.Node{Name: m.Name}
		if !m.Hidden || c.IncludeHidden {
			mesh := c.ConvertMesh(m)
			if len(mesh.Primitives) > 0 {
				node.Mesh = gltf.Index(uint32(len(c.Document.Meshes)))
				c.Document.Meshes = append(c.Document.Meshes, mesh)
			}
		}
		if local := localMatrix(m); !local.IsIdentity() {
			node.Matrix = *a.Mul(local).Mul(a.Inverse())
		}
		c.addNode(node)
	}
	for _, l := range scene.Lights {
		c.addNode(c.convertLight(l))
	}
	for _, cam := range scene.Cameras {
		c.addNode(c.convertCamera(cam))
	}

	for _, mm := range c.Document.Materials {
		if mm.Extensions[unlitMaterialExt] != nil {
			gltfutil.UseExtension(c.Document, unlitMaterialExt)
		}
	}
	if len(c.Document.Textures) > 0 {
		c.Document.Samplers = []*gltf.Sampler{{}}
	}

	return c.Document, nil
}

func clamp01(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}
