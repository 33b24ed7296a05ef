package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
)

// galleryKinds are the curve types rendered by the gallery.
var galleryKinds = []curves.Kind{
	curves.Line, curves.Scatter, curves.LineSymbols, curves.VerticalBars,
	curves.HorizontalBars, curves.Area, curves.Spline, curves.HorizontalSteps,
	curves.VerticalSteps, curves.VerticalDropLines,
}

func runGallery(cmd *cobra.Command, args []string) error {
	if dataPath == "" {
		return fmt.Errorf("gallery needs --data")
	}
	t, err := datasource.Open(dataPath, sheet)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	written, err := RunGallery(t, galleryDir)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// RunGallery renders t once per gallery kind and writes the PNGs under
// outDir. It returns the written paths.
func RunGallery(t datasource.Source, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	var written []string
	for _, k := range galleryKinds {
		l, err := buildLayer(t, k)
		if err != nil {
			return written, err
		}
		l.SetTitle(fmt.Sprintf("%s (%s)", t.Name(), k))
		path := filepath.Join(outDir, strings.ToLower(k.String())+".png")
		err = writeImage(l, path)
		l.Close()
		if err != nil {
			return written, err
		}
		logger.Debugf("gallery: %s", path)
		written = append(written, path)
	}
	if p, err := writePie(t, outDir); err != nil {
		logger.Warnf("gallery: pie skipped: %v", err)
	} else {
		written = append(written, p)
	}
	return written, nil
}

func writePie(t datasource.Source, outDir string) (string, error) {
	l, err := buildLayer(t, curves.Pie)
	if err != nil {
		return "", err
	}
	defer l.Close()
	// A pie layer shows the first Y column only.
	for l.Curves().Len() > 1 {
		l.RemoveCurve(l.Curves().Len() - 1)
	}
	path := filepath.Join(outDir, "pie.png")
	return path, writeImage(l, path)
}
