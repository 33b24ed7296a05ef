// Command plotview is an interactive desktop viewer for plot layers.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MehdiChinoune/scidavis-svn-sub001/cmd/plotview/viewport"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/serialize"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	layer *layer.Layer
	table *datasource.Table

	dataPath  string
	layerPath string
	sheet     string
	kind      curves.Kind
	tool      layer.Tool
	arrow     bool
	text      string

	img       *canvas.Image
	overlay   *plotOverlay
	status    *widget.Label
	fileLabel *widget.Label
	readout   string
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var dataFlag, layerFlag, sheetFlag, levelFlag string
	flag.StringVar(&dataFlag, "data", "", "Data file (.csv or .xlsx) to plot")
	flag.StringVar(&sheetFlag, "sheet", "", "Workbook sheet (default: first)")
	flag.StringVar(&layerFlag, "layer", "", "Saved layer to open")
	flag.StringVar(&levelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	if err := logger.SetLogLevel(levelFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	a := app.NewWithID("org.scidavis.plotview")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Plot Viewer")
	w.Resize(fyne.NewSize(1000, 780))

	state := &uiState{app: a, window: w, kind: curves.Line}
	loadPrefs(state)
	if dataFlag != "" {
		state.dataPath, state.sheet = dataFlag, sheetFlag
	}
	if layerFlag != "" {
		state.layerPath = layerFlag
	}

	state.fileLabel = widget.NewLabel("")
	state.status = widget.NewLabel("")
	state.img = canvas.NewImageFromImage(nil)
	state.img.FillMode = canvas.ImageFillContain
	state.overlay = newPlotOverlay(state)

	kindSelect := widget.NewSelect(kindOptions(), func(v string) {
		k, err := curves.ParseKind(v)
		if err != nil {
			return
		}
		state.kind = k
		convertAll(state)
		savePrefs(state)
	})
	kindSelect.Selected = state.kind.String()

	textEntry := widget.NewEntry()
	textEntry.SetPlaceHolder("text")
	textEntry.OnChanged = func(s string) { state.text = s }
	arrowChk := widget.NewCheck("Arrow", func(on bool) { state.arrow = on })

	toolSelect := widget.NewSelect(toolOptions(), func(v string) {
		t, err := layer.ParseTool(v)
		if err != nil {
			return
		}
		selectTool(state, t)
	})
	toolSelect.Selected = layer.ToolIdle.String()

	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() {
		if state.layer != nil && state.layer.ZoomOut() {
			redraw(state)
		}
	})

	top := container.NewHBox(
		widget.NewLabel("Type:"), kindSelect,
		widget.NewLabel("Tool:"), toolSelect,
		arrowChk, textEntry, zoomOut,
		layout.NewSpacer(), state.fileLabel,
	)
	plot := container.NewStack(state.img, state.overlay)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, plot))

	buildMenus(state)
	if state.layerPath != "" {
		openLayer(state, state.layerPath)
	} else if state.dataPath != "" {
		openData(state, state.dataPath)
	}
	w.SetOnClosed(func() {
		savePrefs(state)
		if state.layer != nil {
			state.layer.Close()
		}
	})
	w.ShowAndRun()
}

func kindOptions() []string {
	var out []string
	for k := curves.Line; k.Valid(); k++ {
		if k.IsXY() {
			out = append(out, k.String())
		}
	}
	return out
}

func toolOptions() []string {
	var out []string
	for t := layer.ToolIdle; t <= layer.ToolScreenRead; t++ {
		out = append(out, t.String())
	}
	return out
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() { openPath(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Data…", func() { openFileDialog(state, false) }),
		fyne.NewMenuItem("Open Layer…", func() { openFileDialog(state, true) }),
		fyne.NewMenuItem("Save Layer…", func() { saveLayerDialog(state, false) }),
		fyne.NewMenuItem("Save Template…", func() { saveLayerDialog(state, true) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", func() { exportImage(state, render.PNG, "layer.png") }),
		fyne.NewMenuItem("Export SVG…", func() { exportImage(state, render.SVG, "layer.svg") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	plotMenu := fyne.NewMenu("Plot",
		fyne.NewMenuItem("New Legend", func() {
			if state.layer != nil {
				state.layer.NewLegend()
				redraw(state)
			}
		}),
		fyne.NewMenuItem("Zoom Out", func() {
			if state.layer != nil && state.layer.ZoomOut() {
				redraw(state)
			}
		}),
		fyne.NewMenuItem("Autoscale", func() {
			if state.layer != nil {
				for state.layer.ZoomOut() {
				}
				state.layer.SetAutoscale(true)
				redraw(state)
			}
		}),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, plotMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state, false) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) { saveLayerDialog(state, false) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

// openPath dispatches on the extension: data files are plotted, anything
// else is read as a saved layer.
func openPath(state *uiState, path string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".dat", ".xlsx", ".xlsm":
		openData(state, path)
	default:
		openLayer(state, path)
	}
}

func openFileDialog(state *uiState, asLayer bool) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		if asLayer {
			openLayer(state, path)
		} else {
			openData(state, path)
		}
	}, state.window)
	d.Show()
}

// replaceLayer swaps in l, closing the previous layer.
func replaceLayer(state *uiState, l *layer.Layer) {
	if state.layer != nil {
		state.layer.Close()
	}
	state.layer = l
	l.OnCellUpdate = func(u layer.CellUpdate) { applyCellUpdate(state, u) }
	l.OnScreenRead = func(x, y float64) {
		state.readout = fmt.Sprintf("x=%s  y=%s", viewport.FormatCoordinate(x), viewport.FormatCoordinate(y))
		setStatus(state, state.readout)
	}
	if state.tool != layer.ToolIdle {
		selectTool(state, state.tool)
	}
	redraw(state)
}

func layerSize(state *uiState) (int, int) {
	raw := 800
	if state.img != nil && state.img.Size().Width > 0 {
		raw = int(state.img.Size().Width)
	}
	return viewport.ComputeLayerDimensions(raw)
}

func openData(state *uiState, path string) {
	t, err := datasource.Open(path, state.sheet)
	if err != nil {
		showError(state, err)
		return
	}
	l, err := buildLayer(t, state.kind, layerSize(state))
	if err != nil {
		showError(state, err)
		return
	}
	state.table, state.dataPath, state.layerPath = t, path, ""
	replaceLayer(state, l)
	finishOpen(state, path)
}

// buildLayer plots every Y column of t against its first X column.
func buildLayer(t datasource.Source, kind curves.Kind, width, height int) (*layer.Layer, error) {
	cfg := layer.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Title = width, height, t.Name()
	l := layer.New(cfg)
	x := ""
	var ys []string
	for c := 0; c < t.ColumnCount(); c++ {
		switch t.Designation(c) {
		case datasource.X:
			if x == "" {
				x = t.ColumnName(c)
			}
		case datasource.Y:
			ys = append(ys, t.ColumnName(c))
		}
	}
	if x == "" || len(ys) == 0 {
		l.Close()
		return nil, fmt.Errorf("%s: need an X and at least one Y column", t.Name())
	}
	for _, y := range ys {
		if _, err := l.InsertCurve(t, x, y, kind, layer.AllRows); err != nil {
			logger.Warnf("plotview: column %s skipped: %v", y, err)
		}
	}
	if l.Curves().Len() == 0 {
		l.Close()
		return nil, fmt.Errorf("%s: no plottable columns", t.Name())
	}
	return l, nil
}

func openLayer(state *uiState, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		showError(state, err)
		return
	}
	cat := datasource.NewCatalog()
	if state.table != nil {
		cat.AddTable(state.table)
	}
	l, err := serialize.Load(string(b), serialize.CurrentVersion, cat)
	if err != nil {
		showError(state, err)
		return
	}
	state.layerPath = path
	replaceLayer(state, l)
	finishOpen(state, path)
}

func finishOpen(state *uiState, path string) {
	state.fileLabel.SetText(truncatePath(path, 60))
	addRecentFile(state, path)
	savePrefs(state)
	buildMenus(state)
	setStatus(state, fmt.Sprintf("%d curves", state.layer.Curves().Len()))
}

// applyCellUpdate writes a point-tool edit into the owned table and
// re-reads every curve bound to it.
func applyCellUpdate(state *uiState, u layer.CellUpdate) {
	if state.table == nil || state.table.Name() != u.Source {
		setStatus(state, fmt.Sprintf("%s is read-only", u.Source))
		return
	}
	col := state.table.ColumnIndex(u.Column)
	if err := state.table.SetCell(u.Row, col, u.Text); err != nil {
		showError(state, err)
		return
	}
	rebindTable(state.layer, state.table)
	redraw(state)
}

// rebindTable re-reads the curves of l bound to t.
func rebindTable(l *layer.Layer, t datasource.Source) {
	if l == nil {
		return
	}
	for i := 0; i < l.Curves().Len(); i++ {
		c, _ := l.Curves().Curve(i)
		if c.Common().Binding.Source != t.Name() {
			continue
		}
		if err := l.RebindCurve(i, t); err != nil {
			logger.Warnf("plotview: curve %d: %v", i, err)
		}
	}
}

func selectTool(state *uiState, t layer.Tool) {
	state.tool = t
	if state.layer == nil {
		return
	}
	opts := layer.ToolOptions{Arrow: state.arrow, Text: state.text}
	if err := state.layer.SetTool(t, opts); err != nil {
		setStatus(state, err.Error())
		return
	}
	redraw(state)
}

// convertAll switches every convertible curve to state.kind.
func convertAll(state *uiState) {
	if state.layer == nil {
		return
	}
	for i := 0; i < state.layer.Curves().Len(); i++ {
		k, _ := state.layer.Curves().Kind(i)
		if k == state.kind || !curves.Convertible(k, state.kind) {
			continue
		}
		if err := state.layer.ConvertCurve(i, state.kind); err != nil {
			logger.Warnf("plotview: convert curve %d: %v", i, err)
		}
	}
	redraw(state)
}

func redraw(state *uiState) {
	if state.layer == nil || state.img == nil {
		return
	}
	img, err := state.layer.Image()
	if err != nil {
		setStatus(state, err.Error())
		return
	}
	state.img.Image = img
	state.img.Refresh()
	if state.overlay != nil {
		state.overlay.Refresh()
	}
}

func setStatus(state *uiState, s string) {
	if state.status != nil {
		state.status.SetText(s)
	}
}

func showError(state *uiState, err error) {
	logger.Errorf("plotview: %v", err)
	if state.window != nil {
		dialog.ShowError(err, state.window)
	}
}

func saveLayerDialog(state *uiState, asTemplate bool) {
	if state.layer == nil {
		dialog.ShowInformation("Save", "No layer to save.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		text := serialize.Save(state.layer, serialize.Options{Version: serialize.CurrentVersion, Template: asTemplate})
		if _, err := wc.Write([]byte(text)); err != nil {
			showError(state, err)
			return
		}
		if !asTemplate {
			state.layerPath = wc.URI().Path()
			addRecentFile(state, state.layerPath)
			savePrefs(state)
		}
	}, state.window)
	name := "layer.sgl"
	if asTemplate {
		name = "layer.sgt"
	}
	fs.SetFileName(name)
	fs.Show()
}

func exportImage(state *uiState, format render.Format, defaultName string) {
	if state == nil || state.window == nil || state.layer == nil {
		dialog.ShowInformation("Export", "No layer to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := state.layer.Render(wc, format); err != nil {
			showError(state, err)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastData", state.dataPath)
	prefs.SetString("lastSheet", state.sheet)
	prefs.SetString("lastLayer", state.layerPath)
	prefs.SetString("curveKind", state.kind.String())
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	state.dataPath = prefs.StringWithFallback("lastData", "")
	state.sheet = prefs.StringWithFallback("lastSheet", "")
	state.layerPath = prefs.StringWithFallback("lastLayer", "")
	if k, err := curves.ParseKind(prefs.StringWithFallback("curveKind", curves.Line.String())); err == nil && k.IsXY() {
		state.kind = k
	}
}

func truncatePath(p string, n int) string {
	if len(p) <= n || n < 4 {
		return p
	}
	return "…" + p[len(p)-(n-1):]
}
