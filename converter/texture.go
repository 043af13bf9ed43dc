package converter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type textureCache struct {
	srcDir   string
	textures map[string]*textureInfo
}

type textureInfo struct {
	name string
	path string
	id   *uint32
	img  image.Image
	err  error
}

func newTextureCache(srcDir string) *textureCache {
	return &textureCache{srcDir: srcDir, textures: map[string]*textureInfo{}}
}

func (c *textureCache) get(name string) *textureInfo {
	key := strings.ToLower(name)
	if t, ok := c.textures[key]; ok {
		return t
	}
	t := &textureInfo{name: name, path: c.resolve(name)}
	c.textures[key] = t
	return t
}

// resolve finds the file of a texture. Names in 3ds files are often upper
// case DOS names, so the directory is searched ignoring case.
func (c *textureCache) resolve(name string) string {
	path := filepath.Join(c.srcDir, name)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	entries, err := os.ReadDir(filepath.Join(c.srcDir, filepath.Dir(name)))
	if err != nil {
		return path
	}
	base := filepath.Base(name)
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), base) {
			return filepath.Join(c.srcDir, filepath.Dir(name), e.Name())
		}
	}
	return path
}

func (c *textureCache) getImage(name string) (image.Image, error) {
	t := c.get(name)
	if t.img != nil || t.err != nil {
		return t.img, t.err
	}

	f, err := os.Open(t.path)
	if err != nil {
		t.err = err
		return nil, err
	}
	defer f.Close()

	t.img, _, t.err = image.Decode(f)
	if t.err != nil && strings.ToLower(filepath.Ext(t.path)) == ".tga" {
		// retry
		f.Seek(0, io.SeekStart)
		t.img, t.err = tga.Decode(f)
	}
	return t.img, t.err
}

func (c *textureCache) hasAlpha(texture string) bool {
	ext := strings.ToLower(filepath.Ext(texture))
	if texture == "" || ext == ".jpg" || ext == ".jpeg" || ext == ".bmp" {
		return false
	}
	img, err := c.getImage(texture)
	if err != nil {
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}

func (c *textureCache) scaleTexture(texture string, mime string, scale float32, limit int) (io.Reader, error) {
	img, err := c.getImage(texture)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()

	if limit > 0 {
		sz := int(float32(rect.Dx()) * scale)
		if sz > limit {
			scale *= float32(limit) / float32(sz)
		}
	}

	if scale != 1.0 {
		dst := image.NewRGBA(image.Rect(0, 0, int(float32(rect.Dx())*scale), int(float32(rect.Dy())*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
		img = dst
	}

	w := new(bytes.Buffer)
	if mime == "image/png" {
		err = png.Encode(w, img)
	} else {
		err = jpeg.Encode(w, img, nil)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
