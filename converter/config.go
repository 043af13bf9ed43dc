package converter

import (
	"os"

	"github.com/binzume/tdsconv/gltfutil"
	"github.com/binzume/tdsconv/tds"
	"github.com/qmuntal/gltf"
	"gopkg.in/yaml.v2"
)

// Config holds conversion settings read from a YAML (or JSON) file.
type Config struct {
	Scale                  float32 `yaml:"scale"`
	Codepage               string  `yaml:"codepage"`
	Unlit                  bool    `yaml:"unlit"`
	TextureResolutionLimit int     `yaml:"textureResolutionLimit"`

	// Hide lists objects converted without geometry.
	Hide []string `yaml:"hide"`

	// MaterialSettings by material name. "*" matches all other materials.
	MaterialSettings map[string]*MaterialSetting `yaml:"materialSettings"`
}

type MaterialSetting struct {
	ForceUnlit  bool   `yaml:"forceUnlit"`
	AlphaMode   string `yaml:"alphaMode"`
	DoubleSided *bool  `yaml:"doubleSided"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// HideObjects marks the listed meshes hidden.
func (conf *Config) HideObjects(scene *tds.Scene) {
	for _, name := range conf.Hide {
		for _, m := range scene.Meshes {
			if m.Name == name {
				m.Hidden = true
			}
		}
	}
}

// ApplyConfig applies material settings to a converted document.
func ApplyConfig(doc *gltf.Document, conf *Config) {
	for _, mat := range doc.Materials {
		setting := conf.MaterialSettings[mat.Name]
		if setting == nil {
			setting = conf.MaterialSettings["*"]
		}
		if setting == nil {
			continue
		}
		if setting.ForceUnlit {
			gltfutil.UseExtension(doc, unlitMaterialExt)
			mat.Extensions = map[string]interface{}{unlitMaterialExt: map[string]string{}}
		}
		if setting.AlphaMode == "blend" {
			mat.AlphaMode = gltf.AlphaBlend
		} else if setting.AlphaMode == "mask" {
			mat.AlphaMode = gltf.AlphaMask
		} else if setting.AlphaMode == "opaque" {
			mat.AlphaMode = gltf.AlphaOpaque
		}
		if setting.DoubleSided != nil {
			mat.DoubleSided = *setting.DoubleSided
		}
	}
}
