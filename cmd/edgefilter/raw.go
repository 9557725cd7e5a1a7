package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/edge-filter/internal/imaging"
)

func newRawCmd(a *app) *cobra.Command {
	var height, width, channels int

	cmd := &cobra.Command{
		Use:   "raw INPUT OUTPUT",
		Short: "Filter a raw BGR byte buffer",
		Long: `Read INPUT as a raw 8-bit buffer of shape [height, width, channels]
(row-major, no padding, B,G,R order) and write the [height, width] edge bytes
(0 or 255) to OUTPUT. Use "-" for stdin or stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRaw(cmd, args[0], args[1], []int{height, width, channels})
		},
	}

	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&channels, "channels", imaging.Channels, "channels per pixel (must be 3)")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("width")
	return cmd
}

func (a *app) runRaw(cmd *cobra.Command, in, out string, shape []int) error {
	data, err := readInput(cmd, in)
	if err != nil {
		return err
	}

	edges, edgeShape, err := imaging.ApplyBuffer(shape, data, a.cfg.FilterOptions())
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, out, edges); err != nil {
		return err
	}
	a.log.Info("raw", "edge buffer written", map[string]interface{}{
		"shape":  edgeShape,
		"output": out,
	})
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
