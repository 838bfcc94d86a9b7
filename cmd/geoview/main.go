package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/cmap"
	"github.com/san-kum/geoview/internal/config"
	"github.com/san-kum/geoview/internal/grid"
	"github.com/san-kum/geoview/internal/history"
	"github.com/san-kum/geoview/internal/netcdf"
	"github.com/san-kum/geoview/internal/render"
	"github.com/san-kum/geoview/internal/shapefile"
	"github.com/san-kum/geoview/internal/tui"
)

var (
	configFile string
	verbose    bool

	// Axis-role flags for non-interactive rendering.
	xDim      string
	yDim      string
	navDim    string
	fixedDims []string
	navIndex  int

	colormap  string
	mapWidth  int
	mapHeight int

	profileRow int
	profileCol int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "geoview [file]",
		Short: "terminal viewer for NetCDF and shapefile data",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	varsCmd := &cobra.Command{
		Use:   "vars [file]",
		Short: "list plottable variables",
		Args:  cobra.ExactArgs(1),
		RunE:  runVars,
	}

	renderCmd := &cobra.Command{
		Use:   "render [file] [variable]",
		Short: "render one slice as a terminal heatmap",
		Args:  cobra.ExactArgs(2),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&xDim, "x", "", "dimension mapped to the X axis")
	renderCmd.Flags().StringVar(&yDim, "y", "", "dimension mapped to the Y axis")
	renderCmd.Flags().StringVar(&navDim, "nav", "", "navigation dimension")
	renderCmd.Flags().StringSliceVar(&fixedDims, "fixed", nil, "fixed dimension as name=index (repeatable)")
	renderCmd.Flags().IntVar(&navIndex, "index", 0, "navigation index")
	renderCmd.Flags().StringVar(&colormap, "colormap", "", "colormap name")
	renderCmd.Flags().IntVar(&mapWidth, "width", 0, "map width in cells")
	renderCmd.Flags().IntVar(&mapHeight, "height", 0, "map height in cells")

	profileCmd := &cobra.Command{
		Use:   "profile [file] [variable]",
		Short: "plot a 1-D transect through a slice",
		Args:  cobra.ExactArgs(2),
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&xDim, "x", "", "dimension mapped to the X axis")
	profileCmd.Flags().StringVar(&yDim, "y", "", "dimension mapped to the Y axis")
	profileCmd.Flags().StringVar(&navDim, "nav", "", "navigation dimension")
	profileCmd.Flags().StringSliceVar(&fixedDims, "fixed", nil, "fixed dimension as name=index (repeatable)")
	profileCmd.Flags().IntVar(&navIndex, "index", 0, "navigation index")
	profileCmd.Flags().IntVar(&profileRow, "row", -1, "Y index of the transect (default: middle row)")
	profileCmd.Flags().IntVar(&profileCol, "col", -1, "X index of a vertical transect instead")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recently opened files",
		RunE:  runHistory,
	}
	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "forget all recently opened files",
		RunE:  runHistoryClear,
	})

	rootCmd.AddCommand(infoCmd, varsCmd, renderCmd, profileCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	cfg, err := config.Load(config.DefaultPath())
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	if len(args) == 0 {
		st := history.New(cfg.HistoryFile, cfg.MaxHistory)
		entries, _ := st.List()
		if len(entries) == 0 {
			fmt.Println("usage: geoview <file.nc | file.shp>")
			return nil
		}
		fmt.Println("recently opened:")
		for _, e := range entries {
			fmt.Printf("  %s\n", e.Path)
		}
		fmt.Println("\nusage: geoview <file.nc | file.shp>")
		return nil
	}

	path := args[0]
	if err := history.New(cfg.HistoryFile, cfg.MaxHistory).Add(path); err != nil {
		log.WithError(err).Warn("could not record history")
	}
	return tui.Run(path, cfg, log)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	if shapefile.IsShapefile(path) {
		s, err := shapefile.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("file: %s\n", s.Path)
		fmt.Printf("type: shapefile\n")
		fmt.Printf("crs: %s\n", s.CRS)
		fmt.Printf("features: %d\n", s.FeatureCount)
		fmt.Printf("geometry: %s\n", strings.Join(s.GeomTypes, ", "))
		fmt.Printf("bounds: (%g, %g) .. (%g, %g)\n",
			s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y)
		return nil
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return err
	}
	defer nc.Close()

	fmt.Printf("file: %s\n", nc.Path())
	fmt.Printf("type: netcdf\n")

	attrs := nc.GlobalAttrs()
	if len(attrs) > 0 {
		fmt.Println("\nglobal attributes:")
		for _, a := range attrs {
			fmt.Printf("  %s: %s\n", a.Name, a.Value)
		}
	}

	fmt.Println("\ndimensions:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tSIZE\tCOORDS")
	for _, d := range nc.Dimensions() {
		coords := "-"
		if d.HasCoords() {
			coords = fmt.Sprintf("%g .. %g", d.Coords[0], d.Coords[len(d.Coords)-1])
		}
		fmt.Fprintf(w, "  %s\t%d\t%s\n", d.Name, d.Size, coords)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nplottable variables: %d\n", len(nc.Variables()))
	return nil
}

func runVars(cmd *cobra.Command, args []string) error {
	nc, err := netcdf.Open(args[0])
	if err != nil {
		return err
	}
	defer nc.Close()

	vars := nc.Variables()
	if len(vars) == 0 {
		fmt.Println("no plottable variables (need at least 2 dimensions)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHAPE\tUNITS\tDESCRIPTION")
	for _, v := range vars {
		shape := make([]string, len(v.Dims))
		for i, d := range v.Dims {
			shape[i] = fmt.Sprintf("%s:%d", d.Name, d.Size)
		}
		fmt.Fprintf(w, "%s\t(%s)\t%s\t%s\n", v.Name, strings.Join(shape, ", "), v.Units, v.LongName)
	}
	return w.Flush()
}

// captureSink holds the last published frame so a render that jumps
// after its first draw still prints exactly one map.
type captureSink struct {
	frame *render.Frame
}

func (s *captureSink) Publish(f render.Frame) { s.frame = &f }

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	nc, err := netcdf.Open(args[0])
	if err != nil {
		return err
	}
	defer nc.Close()

	v, err := findVariable(nc, args[1])
	if err != nil {
		return err
	}

	name := cfg.Colormap
	if colormap != "" {
		name = colormap
	}
	cm, err := cmap.Get(name)
	if err != nil {
		return fmt.Errorf("%v (available: %s)", err, strings.Join(cmap.Names(), ", "))
	}
	width, height := cfg.MapWidth, cfg.MapHeight
	if mapWidth > 0 {
		width = mapWidth
	}
	if mapHeight > 0 {
		height = mapHeight
	}

	capture := &captureSink{}
	c := render.New(nc, flagPrompt{}, capture,
		render.WithCoastlines(cfg.Coastlines),
		render.WithGridlines(cfg.Gridlines),
		render.WithLogger(log))

	if err := c.Render(v); err != nil && capture.frame == nil {
		return err
	}
	if navIndex > 0 {
		if err := c.Jump(navIndex); err != nil {
			return err
		}
	}

	sink := &render.TextSink{W: os.Stdout, Width: width, Height: height, Map: cm}
	sink.Publish(*capture.frame)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	nc, err := netcdf.Open(args[0])
	if err != nil {
		return err
	}
	defer nc.Close()

	v, err := findVariable(nc, args[1])
	if err != nil {
		return err
	}

	m, err := buildMapping(v)
	if err != nil {
		return err
	}
	idx := 0
	if _, _, ok := m.NavDim(); ok {
		idx = navIndex
	}
	req, err := axes.BuildIndex(m, idx)
	if err != nil {
		return err
	}
	g, err := nc.FetchSlice(req)
	if err != nil {
		return err
	}

	xd := m.Var.Dims[m.XPos()]
	yd := m.Var.Dims[m.YPos()]

	var data []float64
	var caption string
	if profileCol >= 0 {
		if profileCol >= g.NX {
			return fmt.Errorf("column %d out of range (0..%d)", profileCol, g.NX-1)
		}
		for y := 0; y < g.NY; y++ {
			if !g.Missing(y, profileCol) {
				data = append(data, g.At(y, profileCol))
			}
		}
		caption = fmt.Sprintf("%s along %s at %s=%g", v.Name, yd.Name, xd.Name, xd.Coord(profileCol))
	} else {
		row := profileRow
		if row < 0 {
			row = g.NY / 2
		}
		if row >= g.NY {
			return fmt.Errorf("row %d out of range (0..%d)", row, g.NY-1)
		}
		for x := 0; x < g.NX; x++ {
			if !g.Missing(row, x) {
				data = append(data, g.At(row, x))
			}
		}
		caption = fmt.Sprintf("%s along %s at %s=%g", v.Name, xd.Name, yd.Name, yd.Coord(row))
	}
	if len(data) == 0 {
		return grid.ErrEmptySlice
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(72),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entries, err := history.New(cfg.HistoryFile, cfg.MaxHistory).List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recently opened files")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPENED\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.OpenedAt.Format("2006-01-02 15:04:05"), e.Path)
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return history.New(cfg.HistoryFile, cfg.MaxHistory).Clear()
}

func findVariable(nc *netcdf.File, name string) (grid.VariableDescriptor, error) {
	for _, v := range nc.Variables() {
		if v.Name == name {
			return v, nil
		}
	}
	var names []string
	for _, v := range nc.Variables() {
		names = append(names, v.Name)
	}
	return grid.VariableDescriptor{}, fmt.Errorf("no variable %q (available: %s)",
		name, strings.Join(names, ", "))
}

// buildMapping assigns axis roles from the --x/--y/--nav/--fixed flags,
// falling back to the name-based suggestions. This is the
// non-interactive counterpart of the axis dialog.
func buildMapping(v grid.VariableDescriptor) (axes.RoleMapping, error) {
	m, amb, err := axes.Resolve(v)
	if err != nil {
		return axes.RoleMapping{}, err
	}
	if amb == nil {
		return m, nil
	}

	roles := make([]axes.Role, v.NDim())
	fixed := make([]int, v.NDim())

	x, err := pickDim(v, xDim, amb.SuggestedX, v.NDim()-1)
	if err != nil {
		return axes.RoleMapping{}, err
	}
	y, err := pickDim(v, yDim, amb.SuggestedY, v.NDim()-2)
	if err != nil {
		return axes.RoleMapping{}, err
	}
	roles[x] = axes.RoleX
	roles[y] = axes.RoleY

	if navDim != "" {
		n := findDim(v, navDim)
		if n < 0 {
			return axes.RoleMapping{}, fmt.Errorf("no dimension %q in %s", navDim, v.Name)
		}
		roles[n] = axes.RoleNav
	} else {
		for i := range roles {
			if roles[i] == axes.RoleFixed {
				roles[i] = axes.RoleNav
				break
			}
		}
	}

	for _, f := range fixedDims {
		name, val, ok := strings.Cut(f, "=")
		if !ok {
			return axes.RoleMapping{}, fmt.Errorf("bad --fixed %q, want name=index", f)
		}
		i := findDim(v, name)
		if i < 0 {
			return axes.RoleMapping{}, fmt.Errorf("no dimension %q in %s", name, v.Name)
		}
		idx, err := strconv.Atoi(val)
		if err != nil {
			return axes.RoleMapping{}, fmt.Errorf("bad --fixed index %q", val)
		}
		fixed[i] = idx
	}

	rm := axes.RoleMapping{Var: v, Roles: roles, Fixed: fixed}
	if err := rm.Validate(); err != nil {
		return axes.RoleMapping{}, err
	}
	return rm, nil
}

// pickDim resolves one axis flag: an explicit name wins, then the
// suggestion, then the positional fallback.
func pickDim(v grid.VariableDescriptor, name string, suggested, fallback int) (int, error) {
	if name != "" {
		if i := findDim(v, name); i >= 0 {
			return i, nil
		}
		return 0, fmt.Errorf("no dimension %q in %s", name, v.Name)
	}
	if suggested >= 0 {
		return suggested, nil
	}
	return fallback, nil
}

func findDim(v grid.VariableDescriptor, name string) int {
	for i, d := range v.Dims {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// flagPrompt answers the coordinator's ambiguity request from the
// command-line flags.
type flagPrompt struct{}

func (flagPrompt) AskAxisRoles(req *axes.AmbiguityRequest) (axes.RoleMapping, error) {
	return buildMapping(req.Var)
}
