package gltfutil

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes doc as .glb or .gltf depending on the extension of path.
// External buffers of a .gltf are written next to it.
func Save(doc *gltf.Document, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	e := gltf.NewEncoder(w).WithWriteHandler(&gltf.RelativeFileHandler{Dir: filepath.Dir(path)})
	e.AsBinary = strings.ToLower(filepath.Ext(path)) != ".gltf"
	if err := e.Encode(doc); err != nil {
		return err
	}
	return w.Close()
}

// IsExtensionUsed reports whether extname is listed in extensionsUsed.
func IsExtensionUsed(doc *gltf.Document, extname string) bool {
	for _, ex := range doc.ExtensionsUsed {
		if ex == extname {
			return true
		}
	}
	return false
}

// UseExtension adds extname to extensionsUsed.
func UseExtension(doc *gltf.Document, extname string) {
	if !IsExtensionUsed(doc, extname) {
		doc.ExtensionsUsed = append(doc.ExtensionsUsed, extname)
	}
}

func imageExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/bmp":
		return ".bmp"
	}
	return ".png"
}

// ImageData returns the bytes of an image stored in a buffer view or a data
// URI. ok is false for images referring to external files.
func ImageData(doc *gltf.Document, index uint32) (data []byte, ok bool, err error) {
	img := doc.Images[index]
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		if int(bv.ByteOffset+bv.ByteLength) > len(buf) {
			return nil, true, fmt.Errorf("image %d: buffer view out of range", index)
		}
		return buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], true, nil
	}
	if strings.HasPrefix(img.URI, "data:") {
		p := strings.Index(img.URI, ";base64,")
		if p < 0 {
			return nil, true, fmt.Errorf("image %d: unsupported data uri", index)
		}
		data, err := base64.StdEncoding.DecodeString(img.URI[p+len(";base64,"):])
		return data, true, err
	}
	return nil, false, nil
}

// ExtractImages writes embedded images to dir and returns the file name of
// every image, embedded or not.
func ExtractImages(doc *gltf.Document, dir string) (map[uint32]string, error) {
	names := map[uint32]string{}
	for i, img := range doc.Images {
		data, embedded, err := ImageData(doc, uint32(i))
		if err != nil {
			return nil, err
		}
		if !embedded {
			names[uint32(i)] = filepath.Base(img.URI)
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image%d", i)
		}
		if filepath.Ext(name) == "" {
			name += imageExt(img.MimeType)
		}
		name = filepath.Base(name)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return nil, err
		}
		names[uint32(i)] = name
	}
	return names, nil
}
