package main

import (
	"io"

	"github.com/binzume/tdsconv/tds"
	"gopkg.in/yaml.v2"
)

type meshInfo struct {
	Name      string   `yaml:"name"`
	Vertices  int      `yaml:"vertices"`
	Faces     int      `yaml:"faces"`
	Materials []string `yaml:"materials,omitempty"`
	Hidden    bool     `yaml:"hidden,omitempty"`
}

type sceneInfo struct {
	MasterScale float32    `yaml:"masterScale"`
	Materials   []string   `yaml:"materials,omitempty"`
	Textures    []string   `yaml:"textures,omitempty"`
	Meshes      []meshInfo `yaml:"meshes,omitempty"`
	Lights      []string   `yaml:"lights,omitempty"`
	Cameras     []string   `yaml:"cameras,omitempty"`
	Animation   *animInfo  `yaml:"animation,omitempty"`
}

type animInfo struct {
	Name   string `yaml:"name,omitempty"`
	Frames uint32 `yaml:"frames"`
	Nodes  int    `yaml:"nodes"`
}

func printInfo(w io.Writer, scene *tds.Scene) error {
	info := &sceneInfo{MasterScale: scene.MasterScale}
	for _, m := range scene.Materials {
		info.Materials = append(info.Materials, m.Name)
		if m.Texture != nil {
			info.Textures = append(info.Textures, m.Texture.Filename)
		}
	}
	for _, m := range scene.Meshes {
		info.Meshes = append(info.Meshes, meshInfo{
			Name:      m.Name,
			Vertices:  len(m.Vertices),
			Faces:     len(m.Triangles),
			Materials: m.MaterialNames(),
			Hidden:    m.Hidden,
		})
	}
	for _, l := range scene.Lights {
		info.Lights = append(info.Lights, l.Name)
	}
	for _, c := range scene.Cameras {
		info.Cameras = append(info.Cameras, c.Name)
	}
	if len(scene.Nodes) > 0 {
		info.Animation = &animInfo{scene.AnimName, scene.AnimLength, len(scene.Nodes)}
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
