package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/binzume/tdsconv/converter"
	"github.com/binzume/tdsconv/gltfutil"
	"github.com/binzume/tdsconv/tds"
	"golang.org/x/text/encoding"
)

func loadChunks(input string, dec *tds.Decoder) (*tds.Chunk, error) {
	r, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return dec.Decode(r)
}

func gltf2tds(input, output string, conf *converter.Config, enc encoding.Encoding) error {
	doc, err := gltfutil.Load(input)
	if err != nil {
		return err
	}
	scene, err := converter.NewGLTFToTDSConverter(&converter.GLTFToTDSOption{
		Scale:    conf.Scale,
		ImageDir: filepath.Dir(output),
	}).Convert(doc)
	if err != nil {
		return err
	}
	conf.HideObjects(scene)
	root, err := tds.FromScene(scene)
	if err != nil {
		return err
	}
	log.Print("out: ", output)
	return tds.Save(root, output, &tds.Encoder{Encoding: enc})
}
