package gltfutil

import (
	"encoding/json"

	"github.com/qmuntal/gltf"
)

const LightsExtension = "KHR_lights_punctual"

func init() {
	gltf.RegisterExtension(LightsExtension, UnmarshalLights)
}

// Light types of KHR_lights_punctual.
const (
	LightDirectional = "directional"
	LightPoint       = "point"
	LightSpot        = "spot"
)

type Light struct {
	Name      string     `json:"name,omitempty"`
	Type      string     `json:"type"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"`
	Range     float32    `json:"range,omitempty"`
	Spot      *Spot      `json:"spot,omitempty"`
}

// Spot cone angles in radians.
type Spot struct {
	InnerConeAngle float32 `json:"innerConeAngle"`
	OuterConeAngle float32 `json:"outerConeAngle"`
}

// LightsPunctual is the extension object. The document level object holds
// Lights and a node level object holds the Light index.
type LightsPunctual struct {
	Lights []*Light `json:"lights,omitempty"`
	Light  *uint32  `json:"light,omitempty"`
}

func UnmarshalLights(data []byte) (interface{}, error) {
	var ext LightsPunctual
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, err
	}
	return &ext, nil
}

func documentLights(doc *gltf.Document) *LightsPunctual {
	if ext, ok := doc.Extensions[LightsExtension].(*LightsPunctual); ok {
		return ext
	}
	ext := &LightsPunctual{}
	if doc.Extensions == nil {
		doc.Extensions = gltf.Extensions{}
	}
	doc.Extensions[LightsExtension] = ext
	UseExtension(doc, LightsExtension)
	return ext
}

// AddLight appends l to the document lights and attaches it to node.
func AddLight(doc *gltf.Document, node *gltf.Node, l *Light) uint32 {
	ext := documentLights(doc)
	index := uint32(len(ext.Lights))
	ext.Lights = append(ext.Lights, l)
	if node.Extensions == nil {
		node.Extensions = gltf.Extensions{}
	}
	node.Extensions[LightsExtension] = &LightsPunctual{Light: gltf.Index(index)}
	return index
}

// NodeLight returns the light attached to node.
func NodeLight(doc *gltf.Document, node *gltf.Node) (*Light, bool) {
	ref, ok := node.Extensions[LightsExtension].(*LightsPunctual)
	if !ok || ref.Light == nil {
		return nil, false
	}
	lights, ok := doc.Extensions[LightsExtension].(*LightsPunctual)
	if !ok || int(*ref.Light) >= len(lights.Lights) {
		return nil, false
	}
	return lights.Lights[*ref.Light], true
}
