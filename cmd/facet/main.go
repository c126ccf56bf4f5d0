// facet - mesh shading attribute builder
// Builds renderer-ready triangle lists with per-corner normals, tangents and
// UVs from OBJ, OFF, STL and glTF meshes.
//
// Usage:
//
//	facet build model.obj --mode flat       Write model.glb with faceted shading
//	facet build model.stl --format raw      Write the interleaved corner buffer
//	facet info model.glb                    Print counts, bounds and degeneracies
//	facet config init                       Write a default config file
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ansipixels/facet/internal/config"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags

	root := &cobra.Command{
		Use:   "facet",
		Short: "Mesh shading attribute builder",
		Long: `facet - Mesh shading attribute builder

Builds flat triangle-corner lists carrying normals, tangents and UVs from
OBJ, OFF, STL, GLB and glTF meshes.

Render modes:
  per_vertex      Smooth normals averaged across shared vertices
  normal_mapping  Smooth normals and tangents for normal-mapped materials
  flat            Each face keeps its own normal
  wireframe       Flat attributes, drawn as lines by the viewer
  auto            normal_mapping when the mesh has UVs, else per_vertex`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "Also write logs to this file (rotated)")

	buildCmd := &cobra.Command{
		Use:   "build <mesh>",
		Short: "Build a triangle list and export it",
		Long:  "Load a mesh, synthesize per-corner normals and tangents for the selected render mode, and write the result as GLB or a raw interleaved buffer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), args[0], flags)
		},
	}
	buildCmd.Flags().StringVar(&flags.Mode, "mode", "", "Render mode: per_vertex, normal_mapping, flat, wireframe or auto")
	buildCmd.Flags().StringVarP(&flags.Out, "out", "o", "", "Output path (default: input name with .glb or .bin)")
	buildCmd.Flags().StringVar(&flags.Format, "format", "", "Output format: glb, raw or none")
	buildCmd.Flags().IntVar(&flags.Workers, "workers", 0, "Goroutines for the face stage (default: number of CPUs)")
	buildCmd.Flags().Float64Var(&flags.MergeTolerance, "merge-tolerance", 0, "STL vertex welding distance")

	infoCmd := &cobra.Command{
		Use:   "info <mesh>",
		Short: "Display mesh information",
		Long:  "Display vertex and triangle counts, bounds, UV presence, and how many faces have degenerate normals or tangents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0], flags)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the facet config file",
	}
	var initPath string
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.OutOrStdout(), initPath)
		},
	}
	configInitCmd.Flags().StringVar(&initPath, "path", "", "Write to this path instead of the user config directory")
	configCmd.AddCommand(configInitCmd)

	root.AddCommand(buildCmd, infoCmd, configCmd)
	return root
}
