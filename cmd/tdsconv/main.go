package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/tdsconv/converter"
	"github.com/binzume/tdsconv/geom"
	"github.com/binzume/tdsconv/gltfutil"
	"github.com/binzume/tdsconv/tds"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	_ "github.com/ftrvxmtrx/tga"
)

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if ext == ".3ds" {
		return base + ".glb"
	} else if ext == ".glb" || ext == ".gltf" {
		return base + ".3ds"
	}
	return input + ".glb"
}

func codepage(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	return htmlindex.Get(name)
}

func saveScene(scene *tds.Scene, output, srcDir string, conf *converter.Config, enc encoding.Encoding) error {
	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".glb" || ext == ".gltf" {
		conv := converter.NewTDSToGLTFConverter(&converter.TDSToGLTFOption{
			Scale:                  conf.Scale,
			ForceUnlit:             conf.Unlit,
			TextureResolutionLimit: conf.TextureResolutionLimit,
		})
		doc, err := conv.Convert(scene, srcDir)
		if err != nil {
			return err
		}
		converter.AddAnimation(doc, scene, conv.NodeByName, conv.Scale)
		converter.ApplyConfig(doc, conf)
		return gltfutil.Save(doc, output)
	} else if ext == ".3ds" {
		if conf.Scale != 0 && conf.Scale != 1 {
			s := conf.Scale
			scene.Transform(func(v *geom.Vector3) {
				v.X *= s
				v.Y *= s
				v.Z *= s
			})
		}
		root, err := tds.FromScene(scene)
		if err != nil {
			return err
		}
		return tds.Save(root, output, &tds.Encoder{Encoding: enc})
	}
	return fmt.Errorf("Unsuppored output type: %v", ext)
}

// isChunkCopy reports whether output can be written from the decoded chunk
// tree without going through the scene model.
func isChunkCopy(output string, conf *converter.Config) bool {
	return strings.ToLower(filepath.Ext(output)) == ".3ds" && (conf.Scale == 0 || conf.Scale == 1) && len(conf.Hide) == 0
}

// newDecoder keeps unknown chunks whenever they may be written back.
func newDecoder(output string, enc encoding.Encoding, keepUnknown, verbose bool) *tds.Decoder {
	if strings.ToLower(filepath.Ext(output)) == ".3ds" {
		keepUnknown = true
	}
	return &tds.Decoder{Encoding: enc, KeepUnknown: keepUnknown, Verbose: verbose}
}

// convert3DS writes a decoded .3ds tree to output, or only prints the scene
// summary to info when it is set.
func convert3DS(root *tds.Chunk, input, output string, conf *converter.Config, enc encoding.Encoding, info io.Writer) error {
	if info != nil {
		scene, err := tds.ToScene(root)
		if err != nil {
			return err
		}
		return printInfo(info, scene)
	}

	// chunk level copy keeps everything the scene model does not cover
	if isChunkCopy(output, conf) {
		log.Print("out: ", output)
		return tds.Save(root, output, &tds.Encoder{Encoding: enc})
	}

	scene, err := tds.ToScene(root)
	if err != nil {
		return err
	}
	conf.HideObjects(scene)

	log.Print("out: ", output)
	return saveScene(scene, output, filepath.Dir(input), conf, enc)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.{3ds,glb,gltf} [output.{glb,gltf,3ds}]\n", os.Args[0])
		flag.PrintDefaults()
	}
	scale := flag.Float64("scale", 0, "scale factor (default 1)")
	unlit := flag.Bool("unlit", false, "unlit all materials (.glb)")
	cp := flag.String("codepage", "", "encoding of strings in .3ds files. e.g. shift_jis, windows-1252")
	confFile := flag.String("config", "", "config file (.yaml)")
	hides := flag.String("hide", "", "hide objects")
	dump := flag.Bool("dump", false, "print chunk tree of .3ds")
	full := flag.Bool("full", false, "dump all array elements")
	printSummary := flag.Bool("info", false, "print scene summary")
	keepUnknown := flag.Bool("keepunknown", false, "keep unknown chunk bodies (always on for .3ds output)")
	verbose := flag.Bool("v", false, "verbose")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := flag.Arg(1)
	if output == "" {
		output = defaultOutputFile(input)
	}

	conf := &converter.Config{}
	if *confFile == "" {
		path := input[0:len(input)-len(filepath.Ext(input))] + ".tdsconv.yaml"
		if _, err := os.Stat(path); err == nil {
			*confFile = path
		}
	}
	if *confFile != "" {
		c, err := converter.LoadConfig(*confFile)
		if err != nil {
			log.Fatal(err)
		}
		conf = c
	}
	if *scale != 0 {
		conf.Scale = float32(*scale)
	}
	if *unlit {
		conf.Unlit = true
	}
	if *cp != "" {
		conf.Codepage = *cp
	}
	if *hides != "" {
		conf.Hide = append(conf.Hide, strings.Split(*hides, ",")...)
	}
	enc, err := codepage(conf.Codepage)
	if err != nil {
		log.Fatal(err)
	}

	inputExt := strings.ToLower(filepath.Ext(input))
	if inputExt == ".glb" || inputExt == ".gltf" {
		if err := gltf2tds(input, output, conf, enc); err != nil {
			log.Fatal(err)
		}
		return
	}

	root, err := loadChunks(input, newDecoder(output, enc, *keepUnknown, *verbose))
	if err != nil {
		log.Fatal(err)
	}
	if *dump {
		root.Dump(os.Stdout, 0, *full)
		return
	}

	var info io.Writer
	if *printSummary {
		info = os.Stdout
	}
	if err := convert3DS(root, input, output, conf, enc, info); err != nil {
		log.Fatal(err)
	}
}
