package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weiihann/kernbench/ppm"
)

func newImgDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "imgdiff <a.ppm> <b.ppm>",
		Short: "Compare two PPM images sample by sample",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return imgDiff(os.Stdout, args[0], args[1])
		},
	}
}

func imgDiff(w io.Writer, pathA, pathB string) error {
	a, err := ppm.ReadFile(pathA)
	if err != nil {
		return err
	}

	b, err := ppm.ReadFile(pathB)
	if err != nil {
		return err
	}

	res, err := ppm.Diff(a, b)
	if err != nil {
		return fmt.Errorf("compare %s and %s: %w", pathA, pathB, err)
	}

	var pct float64
	if res.Samples > 0 {
		pct = 100 * float64(res.Differing) / float64(res.Samples)
	}

	fmt.Fprintf(w, "%dx%d, %d samples\n", a.Width, a.Height, res.Samples)
	fmt.Fprintf(w, "differing: %d (%.2f%%)\n", res.Differing, pct)
	fmt.Fprintf(w, "max abs diff: %d\n", res.MaxAbsDiff)
	fmt.Fprintf(w, "mean abs diff: %.4f\n", res.MeanAbs)

	return nil
}
