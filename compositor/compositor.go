// Package compositor owns the screen grids and turns layout and dirty
// signals into redraw frames.
//
// All methods run on the UI goroutine. Collaborators get read-only grid
// views and feed geometry, buffer changes and tab layout through the
// Compositor methods; each Refresh returns the Frame the backend draws.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pkt.systems/pslog"

	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/redraw"
	"github.com/lixenwraith/vi-screen/render"
	"github.com/lixenwraith/vi-screen/status"
	"github.com/lixenwraith/vi-screen/tabline"
)

var (
	// ErrUnavailable is returned when the target grid does not exist
	ErrUnavailable = errors.New("grid unavailable")
	// ErrUnknownWindow is returned for a window id never passed to SetWindow
	ErrUnknownWindow = errors.New("unknown window")
)

// TablineRow is the default grid row the tabline is drawn on
const TablineRow = 0

// Config holds compositor settings
type Config struct {
	Multigrid  bool
	MaxCells   int
	AttrBudget int
	Glyphs     junction.GlyphSet
	Tabline    tabline.BuilderOpts
}

// DefaultConfig returns single-grid mode with single line glyphs
func DefaultConfig() Config {
	return Config{
		MaxCells:   grid.DefaultMaxCells,
		AttrBudget: render.DefaultAttrBudget,
		Glyphs:     junction.Glyphs(junction.LineSingle),
		Tabline:    tabline.DefaultBuilderOpts(),
	}
}

// Bell is rung when a click lands on a disabled tabline region
type Bell interface {
	Ring()
}

// Option configures a Compositor
type Option func(*Compositor)

// WithLogger sets the logger; defaults to the context logger
func WithLogger(logger pslog.Logger) Option {
	return func(c *Compositor) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithHandler sets the collaborator that performs tabline actions
func WithHandler(h tabline.Handler) Option {
	return func(c *Compositor) {
		c.handler = h
	}
}

// WithBell sets the bell rung on disabled clicks
func WithBell(b Bell) Option {
	return func(c *Compositor) {
		c.bell = b
	}
}

// WithStatus shares a metrics registry
func WithStatus(reg *status.Registry) Option {
	return func(c *Compositor) {
		if reg != nil {
			c.stats = reg
		}
	}
}

// WithDebugFrames logs a dump of every non-empty frame at debug level
func WithDebugFrames(on bool) Option {
	return func(c *Compositor) {
		c.debugFrames = on
	}
}

// Compositor is the screen context: grids, pending redraws, separator layout
// and the tabline click table
type Compositor struct {
	cfg Config
	log pslog.Logger

	tracker *redraw.Tracker
	def     *grid.Grid
	grids   map[grid.Handle]*grid.Grid
	width   int
	height  int

	windows    map[int]*window
	nextHandle grid.Handle
	multigrid  bool

	layout          *junction.Layout
	junctions       []junction.Junction
	glyphs          *junction.Cache
	geometryChanged bool // since the last refresh
	layoutStale     bool

	clicks  *tabline.Registry
	builder *tabline.Builder
	tabs    []tabline.Tab
	funcs   []tabline.Func
	handler tabline.Handler
	bell    Bell

	budget      *render.Budget
	pipeline    *render.Pipeline
	debugFrames bool
	seq         uint64

	// Refresh scratch: levels taken by the first pass, repaint flag from the grid pass
	levels    map[grid.Handle]redraw.Level
	repainted bool

	stats *status.Registry
}

// New creates a compositor. Init must be called before anything renders
func New(cfg Config, opts ...Option) *Compositor {
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = grid.DefaultMaxCells
	}
	c := &Compositor{
		cfg:        cfg,
		tracker:    redraw.NewTracker(),
		grids:      make(map[grid.Handle]*grid.Grid),
		windows:    make(map[int]*window),
		nextHandle: grid.DefaultHandle + 1,
		multigrid:  cfg.Multigrid,
		layout:     junction.NewLayout(nil),
		glyphs:     junction.NewCache(cfg.Glyphs),
		clicks:     tabline.NewRegistry(),
		builder:    tabline.NewBuilder(cfg.Tabline),
		budget:     render.NewBudget(cfg.AttrBudget),
		levels:     make(map[grid.Handle]redraw.Level),
		stats:      status.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = pslog.Ctx(context.Background())
	}
	c.log = c.log.With("component", "compositor")

	c.pipeline = render.NewPipeline()
	c.pipeline.Register(&levelsPass{c: c}, render.PriorityLevels)
	c.pipeline.Register(&gridPass{c: c}, render.PriorityGrid)
	c.pipeline.Register(&separatorPass{c: c}, render.PrioritySeparator)
	c.pipeline.Register(&junctionPass{c: c}, render.PriorityJunction)
	c.pipeline.Register(&debugPass{c: c}, render.PriorityDebug)

	c.stats.Label(status.Mode).Store(c.modeName())
	return c
}

// Init allocates the default grid at the terminal size
// On failure the compositor stays usable but renders nothing
func (c *Compositor) Init(width, height int) error {
	g, err := grid.New(grid.DefaultHandle, width, height, grid.WithMaxCells(c.cfg.MaxCells))
	if err != nil {
		c.def = nil
		c.log.Error("default grid allocation failed, rendering disabled", "width", width, "height", height, "error", err)
		return fmt.Errorf("init: %w", err)
	}
	c.def = g
	c.width, c.height = width, height
	c.grids[grid.DefaultHandle] = g
	c.tracker.Register(redraw.Scope(grid.DefaultHandle))
	c.tracker.Request(redraw.Scope(grid.DefaultHandle), redraw.Clear)

	for _, id := range c.windowIDs() {
		w := c.windows[id]
		switch {
		case !c.multigrid:
			w.handle = grid.DefaultHandle
		case w.handle == 0:
			_ = c.allocWindowGrid(w)
		}
	}
	c.markGeometry()
	c.updateGridCount()
	c.log.Info("compositor initialized", "width", width, "height", height, "mode", c.modeName())
	return nil
}

// Teardown drops every grid and click region; Init may be called again
func (c *Compositor) Teardown() {
	for h := range c.grids {
		c.tracker.Unregister(redraw.Scope(h))
	}
	c.grids = make(map[grid.Handle]*grid.Grid)
	c.def = nil
	for _, w := range c.windows {
		w.handle = 0
	}
	c.clicks.Reset()
	c.tabs, c.funcs = nil, nil
	c.updateGridCount()
	c.log.Info("compositor torn down")
}

// Available reports whether the default grid exists
func (c *Compositor) Available() bool {
	return c.def != nil
}

// Size returns the terminal size the default grid was allocated for
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

// Multigrid reports whether each window owns its grid
func (c *Compositor) Multigrid() bool {
	return c.multigrid
}

// DefaultGrid returns a read-only view of the default grid, nil when absent
func (c *Compositor) DefaultGrid() grid.Reader {
	if c.def == nil {
		return nil
	}
	return c.def
}

// Grid returns a read-only view of the grid with handle h
func (c *Compositor) Grid(h grid.Handle) (grid.Reader, bool) {
	g, ok := c.grids[h]
	if !ok {
		return nil, false
	}
	return g, true
}

// Handles lists the existing grids in ascending order
func (c *Compositor) Handles() []grid.Handle {
	out := make([]grid.Handle, 0, len(c.grids))
	for h := range c.grids {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pending returns the merged level for scope without taking it
func (c *Compositor) Pending(scope redraw.Scope) redraw.Level {
	return c.tracker.Peek(scope)
}

// RequestRedraw raises the pending level of scope
// Returns false when the scope has no grid
func (c *Compositor) RequestRedraw(scope redraw.Scope, level redraw.Level) bool {
	return c.tracker.Request(scope, level)
}

// Stats returns the metrics registry
func (c *Compositor) Stats() *status.Registry {
	return c.stats
}

// Glyphs returns the junction glyph cache
func (c *Compositor) Glyphs() *junction.Cache {
	return c.glyphs
}

// Junctions returns the junctions of the current layout
func (c *Compositor) Junctions() []junction.Junction {
	c.rebuildLayout()
	return append([]junction.Junction(nil), c.junctions...)
}

func (c *Compositor) markGeometry() {
	c.geometryChanged = true
	c.layoutStale = true
}

// rebuildLayout recomputes separators and junctions after a geometry change
func (c *Compositor) rebuildLayout() {
	if !c.layoutStale {
		return
	}
	c.layout = junction.NewLayout(c.Windows())
	c.junctions = c.layout.Junctions()
	c.layoutStale = false
}

func (c *Compositor) modeName() string {
	if c.multigrid {
		return "multigrid"
	}
	return "single"
}

func (c *Compositor) updateGridCount() {
	c.stats.Counter(status.GridCount).Store(int64(len(c.grids)))
}

func (c *Compositor) count(key string, n int) {
	c.stats.Counter(key).Add(int64(n))
}
