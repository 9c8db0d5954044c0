// fourdstool is a CLI utility for working with LS3D 4DS model files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ls3d-tools/internal/config"
	"github.com/Faultbox/ls3d-tools/internal/logger"
	"github.com/Faultbox/ls3d-tools/pkg/fourds"
	"github.com/Faultbox/ls3d-tools/pkg/texture"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(cfg, args)
	case "rewrite":
		cmdRewrite(args)
	case "textures", "tex":
		cmdTextures(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fourdstool - LS3D 4DS model file utility

Usage:
  fourdstool [options] <command> [arguments]

Commands:
  info <file.4ds>            Show model information and object tree
  validate <file.4ds...>     Decode and validate model files
  rewrite <in.4ds> [out.4ds] Decode and re-encode a model
  textures <file.4ds>        List texture references and resolve them
  config [path]              Write the active configuration to disk

Options:
  -config <path>  Path to config file
  -debug          Enable debug logging
  -maps <dirs>    Texture search directories (comma separated)
  -strict         Apply encode-level validation checks
  -textures       Resolve texture references during validation
  -log-file <f>   Write logs to this file

Examples:
  fourdstool info tommygun.4ds
  fourdstool -strict validate models/*.4ds
  fourdstool -maps /game/maps textures freeride.4ds
  fourdstool rewrite old.4ds normalized.4ds`)
}

func loadModel(path string) *fourds.Model {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading model file", zap.String("path", path), zap.Error(err))
	}
	m, err := fourds.Decode(data)
	if err != nil {
		logger.Fatal("decoding model", zap.String("path", path), zap.Error(err))
	}
	logger.Debug("model decoded",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Int("objects", len(m.Objects)),
		zap.Int("materials", len(m.Materials)))
	return m
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fourdstool info <file.4ds>")
		os.Exit(1)
	}

	m := loadModel(args[0])

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Version:   %d\n", m.Version)
	fmt.Printf("Exported:  %s\n", filetimeString(m.Timestamp))
	fmt.Printf("Materials: %d\n", len(m.Materials))
	fmt.Printf("Objects:   %d\n", len(m.Objects))
	if n := len(m.Extra) + len(m.MaterialExtra); n > 0 {
		fmt.Printf("Unknown chunks preserved: %d\n", n)
	}

	fmt.Println()
	fmt.Println("Object tree:")
	for _, root := range m.Roots() {
		printTree(m, root, 1)
	}

	var vertices, faces int
	for _, obj := range m.Objects {
		if g := objGeometry(obj); g != nil {
			vertices += len(g.Positions)
			faces += len(g.Faces)
		}
	}
	fmt.Println()
	fmt.Printf("Total: %d vertices, %d faces\n", vertices, faces)
}

func printTree(m *fourds.Model, index, depth int) {
	obj := m.Objects[index]
	marker := ""
	if !obj.Visible {
		marker = " (hidden)"
	}
	fmt.Printf("%s%s [%s]%s\n", strings.Repeat("  ", depth), obj.Name, variantName(obj), marker)
	for _, child := range m.Children(index) {
		printTree(m, child, depth+1)
	}
}

func variantName(obj *fourds.Object) string {
	switch data := obj.Data.(type) {
	case *fourds.MeshData:
		g := data.Geometry
		return fmt.Sprintf("mesh, %dv %df", len(g.Positions), len(g.Faces))
	case *fourds.BillboardData:
		return "billboard"
	case *fourds.SectorData:
		return "sector"
	case *fourds.PortalData:
		return "portal"
	case *fourds.OccluderData:
		return "occluder"
	case *fourds.LensFlareData:
		return fmt.Sprintf("lens flare, %d elements", len(data.Elements))
	case *fourds.DummyData:
		return "dummy"
	default:
		return "?"
	}
}

func objGeometry(obj *fourds.Object) *fourds.Geometry {
	switch data := obj.Data.(type) {
	case *fourds.MeshData:
		return data.Geometry
	case *fourds.BillboardData:
		return data.Geometry
	}
	return nil
}

func cmdValidate(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fourdstool validate <file.4ds...>")
		os.Exit(1)
	}

	opts := fourds.ValidateOptions{ForEncode: cfg.Validation.Strict}
	if cfg.Validation.CheckTextures {
		opts.Textures = texture.NewLocator(cfg.Data.MapPaths)
	}

	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading model file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		m, err := fourds.Decode(data)
		if err != nil {
			fmt.Printf("%s: FAIL\n", path)
			reportDecodeError(err)
			failed++
			continue
		}

		report := fourds.Validate(m, opts)
		for _, issue := range report.Issues {
			fmt.Printf("  %s\n", issue)
		}
		if report.HasErrors() {
			fmt.Printf("%s: FAIL (%d errors, %d warnings)\n",
				path, len(report.Errors()), len(report.Warnings()))
			failed++
		} else {
			fmt.Printf("%s: OK (%d warnings)\n", path, len(report.Warnings()))
		}
	}

	if failed > 0 {
		logger.Error("validation finished", zap.Int("failed", failed), zap.Int("total", len(args)))
		os.Exit(1)
	}
	logger.Info("validation finished", zap.Int("total", len(args)))
}

func reportDecodeError(err error) {
	var verr *fourds.ValidationError
	if errors.As(err, &verr) {
		for _, issue := range verr.Report.Issues {
			fmt.Printf("  %s\n", issue)
		}
		return
	}
	fmt.Printf("  %v\n", err)
}

func cmdRewrite(args []string) {
	fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fourdstool rewrite <in.4ds> [out.4ds]")
		os.Exit(1)
	}

	inPath := fs.Arg(0)
	outPath := inPath
	if fs.NArg() > 1 {
		outPath = fs.Arg(1)
	}

	m := loadModel(inPath)
	data, err := fourds.Encode(m)
	if err != nil {
		logger.Fatal("encoding model", zap.String("path", inPath), zap.Error(err))
	}

	// The output must survive its own decoder before it replaces anything.
	if _, err := fourds.Decode(data); err != nil {
		logger.Fatal("re-decoding rewritten model", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		logger.Fatal("creating output directory", zap.Error(err))
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		logger.Fatal("writing model file", zap.String("path", outPath), zap.Error(err))
	}

	fmt.Printf("Rewrote: %s (%d bytes)\n", outPath, len(data))
}

func cmdTextures(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fourdstool textures <file.4ds>")
		os.Exit(1)
	}

	m := loadModel(args[0])
	locator := texture.NewLocator(cfg.Data.MapPaths)

	missing := 0
	for i, mat := range m.Materials {
		for _, slot := range mat.TextureSlots() {
			if slot == "" {
				continue
			}
			if path, ok := locator.Locate(slot); ok {
				fmt.Printf("material %-3d %-24s -> %s\n", i, slot, path)
			} else {
				fmt.Printf("material %-3d %-24s -> NOT FOUND\n", i, slot)
				missing++
			}
		}
	}

	if missing > 0 {
		logger.Warn("unresolved textures",
			zap.Int("missing", missing),
			zap.Strings("map_paths", cfg.Data.MapPaths))
		os.Exit(1)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			logger.Fatal("saving config", zap.String("path", args[0]), zap.Error(err))
		}
		fmt.Printf("Wrote: %s\n", args[0])
		return
	}
	if err := cfg.Save(); err != nil {
		logger.Fatal("saving config", zap.Error(err))
	}
	fmt.Printf("Wrote: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
}

func filetimeString(ft uint64) string {
	if ft == 0 {
		return "(not set)"
	}
	// FILETIME counts 100ns ticks since 1601-01-01.
	const epochDelta = 116444736000000000
	if ft < epochDelta {
		return fmt.Sprintf("%#x", ft)
	}
	t := time.Unix(0, int64(ft-epochDelta)*100).UTC()
	return t.Format("2006-01-02 15:04:05 UTC")
}
