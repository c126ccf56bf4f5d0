package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ansipixels/facet/attrib"
	"github.com/ansipixels/facet/internal/config"
	"github.com/ansipixels/facet/internal/logger"
	"github.com/ansipixels/facet/models"
	"github.com/ansipixels/facet/render"
)

// session bundles what every subcommand needs after startup.
type session struct {
	cfg *config.Config
	log *zap.Logger
}

func startSession(flags config.Flags) (*session, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	log, err := logger.ForCLI(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log}, nil
}

func (s *session) loadMesh(path string) (*models.Mesh, error) {
	mesh, err := models.Load(path, models.LoadOptions{
		Triangulate:    s.cfg.Input.Triangulate,
		MergeTolerance: s.cfg.Input.MergeTolerance,
		NoDedupe:       s.cfg.Input.NoDedupe,
	})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	s.log.Debug("loaded mesh",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Bool("hasUV", mesh.HasUV()),
	)
	return mesh, nil
}

// build resolves the render mode for mesh and builds its triangle list.
func (s *session) build(mesh *models.Mesh) (*attrib.TriangleList, string, error) {
	renderMode := config.ResolveRenderMode(s.cfg.Shading.Mode, mesh.HasUV())
	if renderMode == config.ModeNormalMapping && !mesh.HasUV() {
		s.log.Warn("normal_mapping without UVs: tangents will be arbitrary", zap.String("mesh", mesh.Name))
	}
	shading, err := config.ShadingFor(renderMode)
	if err != nil {
		return nil, "", err
	}

	list, err := attrib.NewBuilder(attrib.Options{
		Mode:    shading,
		Workers: s.cfg.Pipeline.Workers,
		Logger:  s.log,
	}).Build(mesh)
	if err != nil {
		return nil, "", fmt.Errorf("build triangle list: %w", err)
	}
	return list, renderMode, nil
}

func runBuild(out io.Writer, meshPath string, flags config.Flags) error {
	s, err := startSession(flags)
	if err != nil {
		return err
	}
	defer logger.Sync(s.log)

	mesh, err := s.loadMesh(meshPath)
	if err != nil {
		return err
	}
	list, renderMode, err := s.build(mesh)
	if err != nil {
		return err
	}

	outPath, err := s.writeOutput(meshPath, mesh.Name, list, renderMode)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Mode:       %s (%s)\n", renderMode, list.Mode)
	fmt.Fprintf(out, "Triangles:  %d\n", list.TriangleCount())
	fmt.Fprintf(out, "Corners:    %d\n", len(list.Corners))
	if list.DegenerateNormals > 0 || list.DegenerateTangents > 0 {
		fmt.Fprintf(out, "Degenerate: %d normals, %d tangents\n", list.DegenerateNormals, list.DegenerateTangents)
	}
	if outPath != "" {
		fmt.Fprintf(out, "Wrote:      %s\n", outPath)
	}
	return nil
}

// writeOutput exports list in the configured format and returns the path
// written, or "" for format none.
func (s *session) writeOutput(meshPath, name string, list *attrib.TriangleList, renderMode string) (string, error) {
	format := s.cfg.Output.Format
	if format == config.FormatNone {
		return "", nil
	}

	outPath := s.cfg.Output.Path
	if outPath == "" {
		ext := ".glb"
		if format == config.FormatRaw {
			ext = ".bin"
		}
		outPath = strings.TrimSuffix(meshPath, filepath.Ext(meshPath)) + ext
	}

	switch format {
	case config.FormatGLB:
		opts := render.GLBOptions{Name: name, RenderMode: renderMode}
		if err := render.WriteGLB(outPath, list, opts); err != nil {
			return "", err
		}
	case config.FormatRaw:
		if err := writeRawFile(outPath, list); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}

	s.log.Info("wrote triangle list",
		zap.String("path", outPath),
		zap.String("format", format),
		zap.Int("corners", len(list.Corners)),
	)
	return outPath, nil
}

func writeRawFile(path string, list *attrib.TriangleList) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := render.WriteRaw(w, list); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func runInfo(out io.Writer, meshPath string, flags config.Flags) error {
	info, err := os.Stat(meshPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	s, err := startSession(flags)
	if err != nil {
		return err
	}
	defer logger.Sync(s.log)

	mesh, err := s.loadMesh(meshPath)
	if err != nil {
		return err
	}
	list, renderMode, err := s.build(mesh)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(meshPath))
	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(out, "File:       %s\n", filepath.Base(meshPath))
	fmt.Fprintf(out, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(out, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(out, "UVs:        %s\n", yesNo(mesh.HasUV()))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(out, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(out, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Mode:       %s (%s)\n", renderMode, list.Mode)
	fmt.Fprintf(out, "Corners:    %d\n", len(list.Corners))
	fmt.Fprintf(out, "Degenerate: %d normals, %d tangents\n", list.DegenerateNormals, list.DegenerateTangents)

	return nil
}

func runConfigInit(out io.Writer, path string) error {
	cfg := config.Default()
	if path == "" {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	} else if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(out, "Wrote:      %s\n", path)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
