// Command plotlayer renders, inspects and converts plot layers from the
// command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/serialize"
)

var (
	logLevel string
	logFile  string

	dataPath  string
	sheet     string
	xColumn   string
	yColumns  []string
	kindName  string
	title     string
	outPath   string
	width     int
	height    int
	layerPath string
	version   int
	savePath  string

	fromVersion int
	toVersion   int
	template    bool

	galleryDir string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plotlayer",
		Short: "Render, inspect and convert plot layers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.SetLogLevel(logLevel); err != nil {
				return err
			}
			if logFile == "" {
				return nil
			}
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logger.SetOutput(f)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "Append log output to this file")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Plot data columns or a saved layer to PNG or SVG",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	f := renderCmd.Flags()
	f.StringVar(&dataPath, "data", "", "Data file (.csv or .xlsx)")
	f.StringVar(&sheet, "sheet", "", "Workbook sheet (default: first)")
	f.StringVarP(&xColumn, "x", "x", "", "X column (default: first X-designated column)")
	f.StringSliceVarP(&yColumns, "y", "y", nil, "Y columns (default: every Y-designated column)")
	f.StringVar(&kindName, "kind", "Line", "Curve type for new curves")
	f.StringVar(&title, "title", "", "Layer title")
	f.StringVarP(&outPath, "output", "o", "plot.png", "Output file; .svg selects SVG")
	f.IntVar(&width, "width", 800, "Image width in pixels")
	f.IntVar(&height, "height", 600, "Image height in pixels")
	f.StringVar(&layerPath, "layer", "", "Saved layer to render instead of building one")
	f.IntVar(&version, "version", serialize.CurrentVersion, "Format version of --layer and --save")
	f.StringVar(&savePath, "save", "", "Also write the layer text to this file")

	inspectCmd := &cobra.Command{
		Use:   "inspect [layer-file]",
		Short: "Summarize a saved layer",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().IntVar(&version, "version", serialize.CurrentVersion, "Format version of the layer file")

	convertCmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "Rewrite a saved layer in another format version",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}
	convertCmd.Flags().IntVar(&fromVersion, "from", serialize.CurrentVersion, "Input format version")
	convertCmd.Flags().IntVar(&toVersion, "to", serialize.CurrentVersion, "Output format version")
	convertCmd.Flags().BoolVar(&template, "template", false, "Drop curve data, keep styles and bindings")
	convertCmd.Flags().StringVar(&dataPath, "data", "", "Data file used to rebind template curves")
	convertCmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet (default: first)")

	galleryCmd := &cobra.Command{
		Use:   "gallery",
		Short: "Render the data once per curve type into a directory",
		Args:  cobra.NoArgs,
		RunE:  runGallery,
	}
	g := galleryCmd.Flags()
	g.StringVar(&dataPath, "data", "", "Data file (.csv or .xlsx)")
	g.StringVar(&sheet, "sheet", "", "Workbook sheet (default: first)")
	g.StringVar(&galleryDir, "out-dir", "gallery", "Directory for the PNG files")
	g.IntVar(&width, "width", 800, "Image width in pixels")
	g.IntVar(&height, "height", 600, "Image height in pixels")

	root.AddCommand(renderCmd, inspectCmd, convertCmd, galleryCmd)
	return root
}

// catalog loads the optional data file as a resolver.
func catalog() (*datasource.Catalog, *datasource.Table, error) {
	cat := datasource.NewCatalog()
	if dataPath == "" {
		return cat, nil, nil
	}
	t, err := datasource.Open(dataPath, sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("load data: %w", err)
	}
	cat.AddTable(t)
	return cat, t, nil
}

// pickColumns resolves the X and Y columns from flags or designations.
func pickColumns(t datasource.Source) (string, []string, error) {
	x, ys := xColumn, yColumns
	for c := 0; c < t.ColumnCount(); c++ {
		switch t.Designation(c) {
		case datasource.X:
			if x == "" {
				x = t.ColumnName(c)
			}
		case datasource.Y:
			if len(yColumns) == 0 {
				ys = append(ys, t.ColumnName(c))
			}
		}
	}
	if x == "" || len(ys) == 0 {
		return "", nil, fmt.Errorf("%s: need an X and at least one Y column", t.Name())
	}
	return x, ys, nil
}

func buildLayer(t datasource.Source, kind curves.Kind) (*layer.Layer, error) {
	cfg := layer.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Title = width, height, title
	l := layer.New(cfg)
	x, ys, err := pickColumns(t)
	if err != nil {
		l.Close()
		return nil, err
	}
	for _, y := range ys {
		if _, err := l.InsertCurve(t, x, y, kind, layer.AllRows); err != nil {
			l.Close()
			return nil, fmt.Errorf("curve %s: %w", y, err)
		}
	}
	return l, nil
}

func readLayer(path string, v int, res serialize.Resolver) (*layer.Layer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layer: %w", err)
	}
	l, err := serialize.Load(string(b), v, res)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return l, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	defer logger.TimeTrack(time.Now(), "render")
	cat, t, err := catalog()
	if err != nil {
		return err
	}
	var l *layer.Layer
	switch {
	case layerPath != "":
		if l, err = readLayer(layerPath, version, cat); err != nil {
			return err
		}
		if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
			l.Resize(width, height)
		}
		if title != "" {
			l.SetTitle(title)
		}
	case t != nil:
		kind, err := curves.ParseKind(kindName)
		if err != nil {
			return err
		}
		if l, err = buildLayer(t, kind); err != nil {
			return err
		}
	default:
		return fmt.Errorf("render needs --data or --layer")
	}
	defer l.Close()
	if err := writeImage(l, outPath); err != nil {
		return err
	}
	if savePath != "" {
		if err := os.WriteFile(savePath, []byte(serialize.Save(l, serialize.Options{Version: version})), 0o644); err != nil {
			return fmt.Errorf("save layer: %w", err)
		}
	}
	logger.Infof("wrote %s", outPath)
	return nil
}

func writeImage(l *layer.Layer, path string) error {
	format := render.PNG
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		format = render.SVG
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := l.Render(f, format); err != nil {
		f.Close()
		return fmt.Errorf("render: %w", err)
	}
	return f.Close()
}

func runInspect(cmd *cobra.Command, args []string) error {
	l, err := readLayer(args[0], version, nil)
	if err != nil {
		return err
	}
	defer l.Close()
	fmt.Fprintln(cmd.OutOrStdout(), describe(l, filepath.Base(args[0])))
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	if !serialize.Supported(toVersion) {
		return fmt.Errorf("unsupported output version %d", toVersion)
	}
	cat, _, err := catalog()
	if err != nil {
		return err
	}
	l, err := readLayer(args[0], fromVersion, cat)
	if err != nil {
		return err
	}
	defer l.Close()
	text := serialize.Save(l, serialize.Options{Version: toVersion, Template: template})
	if err := os.WriteFile(args[1], []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	logger.Infof("converted %s (v%d) to %s (v%d)", args[0], fromVersion, args[1], toVersion)
	return nil
}
