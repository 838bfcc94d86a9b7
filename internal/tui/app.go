// Package tui is the interactive terminal viewer: a variable browser,
// an axis-role dialog for variables with more than two dimensions, and
// a navigable heatmap view.
package tui

import (
	"strconv"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/cmap"
	"github.com/san-kum/geoview/internal/config"
	"github.com/san-kum/geoview/internal/grid"
	"github.com/san-kum/geoview/internal/netcdf"
	"github.com/san-kum/geoview/internal/render"
	"github.com/san-kum/geoview/internal/shapefile"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	coastFg = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
)

type state int

const (
	stateVars state = iota
	stateDialog
	stateMeta
	stateMap
	stateShape
)

// frameSink captures the most recent frame published by the
// coordinator so a render command can hand it back as a message.
type frameSink struct {
	mu    sync.Mutex
	frame *render.Frame
}

func (s *frameSink) Publish(f render.Frame) {
	s.mu.Lock()
	s.frame = &f
	s.mu.Unlock()
}

func (s *frameSink) take() *render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frame
	s.frame = nil
	return f
}

// noPrompt backs the coordinator's prompt slot; the app runs its own
// axis dialog and always enters through RenderMapping, so this is
// never asked.
type noPrompt struct{}

func (noPrompt) AskAxisRoles(*axes.AmbiguityRequest) (axes.RoleMapping, error) {
	return axes.RoleMapping{}, grid.ErrCancelled
}

type frameMsg struct {
	gen   uint64
	frame *render.Frame
	err   error
}

type model struct {
	state state
	cfg   *config.Config
	log   *logrus.Logger

	nc    *netcdf.File
	shape *shapefile.Summary
	coast *shapefile.Summary

	vars   []grid.VariableDescriptor
	cursor int

	// Axis dialog state for the selected variable.
	dlgVar    grid.VariableDescriptor
	dlgRoles  []axes.Role
	dlgFixed  []int
	dlgCursor int

	coord *render.Coordinator
	sink  *frameSink
	// renderMu serializes coordinator calls issued from tea commands.
	renderMu *sync.Mutex
	// gen stamps each dispatched render; results carrying an older
	// stamp are dropped (last-request-wins).
	gen     uint64
	pending bool

	frame     *render.Frame
	colormap  cmap.Map
	showCoast bool
	showGrid  bool

	jumping bool
	jumpBuf string

	status string

	width  int
	height int
}

func newModel(cfg *config.Config, log *logrus.Logger) model {
	cm, err := cmap.Get(cfg.Colormap)
	if err != nil {
		cm, _ = cmap.Get(cmap.Default)
	}
	return model{
		cfg:       cfg,
		log:       log,
		renderMu:  &sync.Mutex{},
		sink:      &frameSink{},
		colormap:  cm,
		showCoast: cfg.Coastlines,
		showGrid:  cfg.Gridlines,
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = ""
		}
		if msg.frame != nil {
			m.frame = msg.frame
			m.state = stateMap
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateVars:
		return m.varsKey(msg)
	case stateDialog:
		return m.dialogKey(msg)
	case stateMeta:
		return m.metaKey(msg)
	case stateMap:
		return m.mapKey(msg)
	case stateShape:
		return m.shapeKey(msg)
	}
	return m, nil
}

func (m model) varsKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.vars)-1 {
			m.cursor++
		}
	case "m":
		m.state = stateMeta
	case "enter", " ":
		if len(m.vars) == 0 {
			return m, nil
		}
		return m.selectVariable(m.vars[m.cursor])
	}
	return m, nil
}

// selectVariable resolves axis roles for v. Two-dimensional variables
// render immediately; higher-rank ones open the axis dialog seeded
// with the name-based guesses.
func (m model) selectVariable(v grid.VariableDescriptor) (model, tea.Cmd) {
	rm, amb, err := axes.Resolve(v)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if amb == nil {
		return m.dispatchRender(rm)
	}
	m.dlgVar = v
	m.dlgRoles = make([]axes.Role, v.NDim())
	m.dlgFixed = make([]int, v.NDim())
	x, y := amb.SuggestedX, amb.SuggestedY
	if x < 0 {
		x = v.NDim() - 1
	}
	if y < 0 {
		y = v.NDim() - 2
		if y == x {
			y--
		}
	}
	m.dlgRoles[x] = axes.RoleX
	m.dlgRoles[y] = axes.RoleY
	for i := range m.dlgRoles {
		if i != x && i != y {
			m.dlgRoles[i] = axes.RoleNav
			break
		}
	}
	m.dlgCursor = 0
	m.state = stateDialog
	return m, nil
}

func (m model) dialogKey(msg tea.KeyMsg) (model, tea.Cmd) {
	n := m.dlgVar.NDim()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "escape":
		m.state = stateVars
		m.status = ""
	case "up", "k":
		if m.dlgCursor > 0 {
			m.dlgCursor--
		}
	case "down", "j":
		if m.dlgCursor < n-1 {
			m.dlgCursor++
		}
	case "left", "h":
		m.dlgRoles[m.dlgCursor] = prevRole(m.dlgRoles[m.dlgCursor])
	case "right", "l":
		m.dlgRoles[m.dlgCursor] = nextRole(m.dlgRoles[m.dlgCursor])
	case "+", "=":
		if m.dlgRoles[m.dlgCursor] == axes.RoleFixed &&
			m.dlgFixed[m.dlgCursor] < m.dlgVar.Dims[m.dlgCursor].Size-1 {
			m.dlgFixed[m.dlgCursor]++
		}
	case "-", "_":
		if m.dlgRoles[m.dlgCursor] == axes.RoleFixed && m.dlgFixed[m.dlgCursor] > 0 {
			m.dlgFixed[m.dlgCursor]--
		}
	case "enter", " ":
		rm := axes.RoleMapping{
			Var:   m.dlgVar,
			Roles: append([]axes.Role(nil), m.dlgRoles...),
			Fixed: append([]int(nil), m.dlgFixed...),
		}
		if err := rm.Validate(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m.dispatchRender(rm)
	}
	return m, nil
}

func (m model) metaKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "escape", "m":
		m.state = stateVars
	}
	return m, nil
}

func (m model) mapKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.jumping {
		switch msg.String() {
		case "enter":
			m.jumping = false
			target, err := strconv.Atoi(m.jumpBuf)
			m.jumpBuf = ""
			if err != nil {
				m.status = "jump: not a number"
				return m, nil
			}
			// Displayed indices are 1-based.
			return m.dispatch(func(c *render.Coordinator) error { return c.Jump(target - 1) })
		case "escape":
			m.jumping = false
			m.jumpBuf = ""
		case "backspace":
			if len(m.jumpBuf) > 0 {
				m.jumpBuf = m.jumpBuf[:len(m.jumpBuf)-1]
			}
		default:
			s := msg.String()
			if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
				m.jumpBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "escape", "v":
		// Invalidate any in-flight render so its frame cannot pull the
		// view back to the map.
		m.gen++
		m.pending = false
		m.state = stateVars
		m.status = ""
		return m, tea.ClearScreen
	case "left", "h":
		return m.dispatch(func(c *render.Coordinator) error { return c.Step(-1) })
	case "right", "l":
		return m.dispatch(func(c *render.Coordinator) error { return c.Step(+1) })
	case "home":
		return m.dispatch(func(c *render.Coordinator) error { return c.Jump(0) })
	case "end":
		return m.dispatch(func(c *render.Coordinator) error { return c.Jump(c.NavSize() - 1) })
	case "g":
		if m.coord != nil && m.coord.Navigable() {
			m.jumping = true
			m.jumpBuf = ""
		}
	case "o":
		m.showCoast = !m.showCoast
	case "i":
		m.showGrid = !m.showGrid
	case "t":
		m.colormap = nextColormap(m.colormap)
	}
	return m, nil
}

func (m model) shapeKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	}
	return m, nil
}

// dispatchRender starts a fresh visualization session for an explicit
// mapping.
func (m model) dispatchRender(rm axes.RoleMapping) (model, tea.Cmd) {
	m.coord = render.New(m.nc, noPrompt{}, m.sink,
		render.WithCoastlines(m.showCoast),
		render.WithGridlines(m.showGrid),
		render.WithLogger(m.log))
	return m.dispatch(func(c *render.Coordinator) error { return c.RenderMapping(rm) })
}

// dispatch runs a coordinator operation in a command. The generation
// stamp taken here lets Update drop results that were overtaken by a
// newer request.
func (m model) dispatch(op func(*render.Coordinator) error) (model, tea.Cmd) {
	if m.coord == nil {
		return m, nil
	}
	m.gen++
	m.pending = true
	gen := m.gen
	coord, sink, mu := m.coord, m.sink, m.renderMu
	return m, func() tea.Msg {
		mu.Lock()
		err := op(coord)
		mu.Unlock()
		return frameMsg{gen: gen, frame: sink.take(), err: err}
	}
}

func prevRole(r axes.Role) axes.Role {
	if r == axes.RoleFixed {
		return axes.RoleNav
	}
	return r - 1
}

func nextRole(r axes.Role) axes.Role {
	if r == axes.RoleNav {
		return axes.RoleFixed
	}
	return r + 1
}

func nextColormap(cur cmap.Map) cmap.Map {
	names := cmap.Names()
	for i, n := range names {
		if n == cur.Name() {
			next, _ := cmap.Get(names[(i+1)%len(names)])
			return next
		}
	}
	return cur
}

// Run opens path and starts the interactive viewer. Shapefiles get the
// outline view; anything else is treated as NetCDF.
func Run(path string, cfg *config.Config, log *logrus.Logger) error {
	m := newModel(cfg, log)

	if shapefile.IsShapefile(path) {
		summary, err := shapefile.Load(path)
		if err != nil {
			return err
		}
		m.shape = summary
		m.state = stateShape
	} else {
		nc, err := netcdf.Open(path)
		if err != nil {
			return err
		}
		defer nc.Close()
		m.nc = nc
		m.vars = nc.Variables()
		if cfg.CoastlineFile != "" {
			coast, err := shapefile.Load(cfg.CoastlineFile)
			if err != nil {
				log.WithError(err).Warn("coastline overlay unavailable")
			} else {
				m.coast = coast
			}
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
