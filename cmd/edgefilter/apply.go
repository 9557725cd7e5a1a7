package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/edge-filter/internal/imaging"
)

func newApplyCmd(a *app) *cobra.Command {
	var overlay bool

	cmd := &cobra.Command{
		Use:   "apply INPUT OUTPUT",
		Short: "Detect edges in an image file and write the edge map",
		Long: `Read INPUT (PNG, JPEG, GIF, BMP, TIFF or WebP), convert it to grayscale,
run Canny edge detection, and write the result to OUTPUT. The output format
follows the OUTPUT extension.

With --overlay the edges are drawn over the input image instead of being
written as a black/white map.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runApply(args[0], args[1], overlay)
		},
	}

	cmd.Flags().BoolVar(&overlay, "overlay", false, "draw edges over the input image")
	a.cfg.BindOutputFlags(cmd.Flags())
	return cmd
}

func (a *app) runApply(in, out string, overlay bool) error {
	filter, err := imaging.NewFilter(a.cfg.FilterOptions())
	if err != nil {
		return err
	}

	src, err := imaging.LoadColorImage(imaging.NewImageCache(), in, a.cfg.MaxDimension)
	if err != nil {
		return err
	}
	a.log.Debug("apply", "image loaded", map[string]interface{}{
		"path":  in,
		"shape": src.Shape(),
	})

	edges, err := filter.Apply(src)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"input":       in,
		"output":      out,
		"edge_pixels": edges.EdgeCount(),
		"backend":     filter.Options().Backend,
	}

	if overlay {
		img, err := imaging.Overlay(src.Image(), edges, a.cfg.OverlayColor, a.cfg.OverlayOpacity)
		if err != nil {
			return err
		}
		if err := imaging.SaveImage(img, out); err != nil {
			return err
		}
		a.log.Info("apply", "overlay written", fields)
		return nil
	}

	if err := imaging.SaveEdgeMap(edges, out); err != nil {
		return err
	}
	a.log.Info("apply", "edge map written", fields)
	return nil
}
