package grid

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// MainName is the name of the main panel of every leaf grid.
const MainName = "main"

// PanelSpec describes a side panel to add.
type PanelSpec struct {
	Name string
	Side Side
	Size Size
	// Pad is the gap between this panel and the previous one on its side
	// (or the main panel).
	Pad float64
	// Splittable marks panels that must follow the shared row/column
	// partition. The grid records it for callers; it does not split on its
	// own.
	Splittable bool
}

// SplitPlan divides a panel into cells. Row ratios stack cells top to
// bottom, column ratios left to right. HSpace and WSpace are the gaps
// between rows and columns as a fraction of the panel's height and width.
type SplitPlan struct {
	RowRatios []float64
	ColRatios []float64
	HSpace    float64
	WSpace    float64
}

func (p SplitPlan) clone() *SplitPlan {
	p.RowRatios = slices.Clone(p.RowRatios)
	p.ColRatios = slices.Clone(p.ColRatios)
	return &p
}

type panel struct {
	spec     PanelSpec
	size     float64
	resolved bool
	split    *SplitPlan

	rect  Rect
	cells []Rect
}

// Option configures a Grid.
type Option func(*Grid)

// WithName sets the grid name used to qualify its panels after
// concatenation. Without it the Namer generates one.
func WithName(name string) Option {
	return func(g *Grid) { g.name = name }
}

// WithNamer sets the policy for generated grid and panel names.
func WithNamer(n Namer) Option {
	return func(g *Grid) {
		if n != nil {
			g.namer = n
		}
	}
}

// Grid is a cross-shaped panel layout. A leaf grid owns a main panel; a
// composite grid (from concatenation) owns a stack of member grids in place
// of the main panel. Both carry their own side panels.
type Grid struct {
	name          string
	width, height float64
	namer         Namer

	panels []panel
	index  map[string]int
	sides  [numSides][]int

	stack *stack

	frozen bool
	bounds Rect
}

// New creates a leaf grid whose natural canvas is width × height.
func New(width, height float64, opts ...Option) (*Grid, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %gx%g", width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		namer:  UUIDNamer{},
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.name == "" {
		g.name = g.namer.Next("grid")
	}
	if err := errors.ValidatePanelName(g.name); err != nil {
		return nil, err
	}

	g.panels = append(g.panels, panel{
		spec:     PanelSpec{Name: MainName, Side: Main, Splittable: true},
		resolved: true,
	})
	g.index[MainName] = 0
	return g, nil
}

// Name returns the grid name.
func (g *Grid) Name() string { return g.name }

// IsFrozen reports whether Freeze has succeeded.
func (g *Grid) IsFrozen() bool { return g.frozen }

// IsComposite reports whether g was produced by concatenation.
func (g *Grid) IsComposite() bool { return g.stack != nil }

// Size returns the natural canvas size: the size given to New for a leaf
// grid, and the members' sizes combined along the stacking direction plus
// padding and the composite's own side panels for a composite.
func (g *Grid) Size() (width, height float64) {
	if g.stack == nil {
		return g.width, g.height
	}
	w, h := g.stack.size()
	return w + g.extent(Left) + g.extent(Right), h + g.extent(Top) + g.extent(Bottom)
}

// Leaves returns the names of the leaf grids in g, in layout order.
func (g *Grid) Leaves() []string {
	if g.stack == nil {
		return []string{g.name}
	}
	var names []string
	for _, m := range g.stack.members {
		names = append(names, m.Leaves()...)
	}
	return names
}

// AddPanel attaches a side panel.
func (g *Grid) AddPanel(spec PanelSpec) error {
	if err := g.CheckPanel(spec); err != nil {
		return err
	}
	g.index[spec.Name] = len(g.panels)
	g.sides[spec.Side] = append(g.sides[spec.Side], len(g.panels))
	g.panels = append(g.panels, panel{
		spec:     spec,
		size:     spec.Size.value,
		resolved: !spec.Size.auto,
	})
	return nil
}

// CheckPanel reports the error AddPanel would return for spec without
// changing the grid.
func (g *Grid) CheckPanel(spec PanelSpec) error {
	if g.frozen {
		return errors.New(errors.ErrCodeAlreadyFrozen, "cannot add panel %q to frozen grid %q", spec.Name, g.name)
	}
	if err := errors.ValidatePanelName(spec.Name); err != nil {
		return err
	}
	if spec.Side <= Main || spec.Side >= numSides {
		return errors.New(errors.ErrCodeInvalidInput, "panel %q: side must be top, bottom, left or right", spec.Name)
	}
	if spec.Size.value < 0 || spec.Pad < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "panel %q: size and padding must not be negative", spec.Name)
	}
	if _, exists := g.index[spec.Name]; exists {
		return errors.New(errors.ErrCodeDuplicateName, "panel %q already exists in grid %q", spec.Name, g.name)
	}
	return nil
}

// AddPad adds an empty fixed-size panel with a generated name and returns
// the name.
func (g *Grid) AddPad(side Side, size float64) (string, error) {
	name := g.namer.Next("pad")
	return name, g.AddPanel(PanelSpec{Name: name, Side: side, Size: Fixed(size)})
}

// SetMeasuredSize resolves the size of a panel. It is meant for Auto panels
// but also overrides a fixed size.
func (g *Grid) SetMeasuredSize(name string, size float64) error {
	owner, i, err := g.find(name)
	if err != nil {
		return err
	}
	if g.frozen || owner.frozen {
		return errors.New(errors.ErrCodeAlreadyFrozen, "cannot resize panel %q after freeze", name)
	}
	p := &owner.panels[i]
	if p.spec.Side == Main {
		return errors.New(errors.ErrCodeInvalidInput, "the main panel takes the remaining space and cannot be sized")
	}
	if !(size >= 0) || math.IsInf(size, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "panel %q: measured size must be a non-negative number, got %g", name, size)
	}
	p.size = size
	p.resolved = true
	return nil
}

// Split attaches a SplitPlan to a panel.
func (g *Grid) Split(name string, plan SplitPlan) error {
	owner, i, err := g.find(name)
	if err != nil {
		return err
	}
	if g.frozen || owner.frozen {
		return errors.New(errors.ErrCodeAlreadyFrozen, "cannot split panel %q after freeze", name)
	}
	p := &owner.panels[i]
	if p.split != nil {
		return errors.New(errors.ErrCodeAlreadySplit, "panel %q is already split", name)
	}
	if err := validatePlan(name, p.spec.Side, plan); err != nil {
		return err
	}
	p.split = plan.clone()
	return nil
}

// IsSplit reports whether the named panel has a SplitPlan. Unknown names
// report false.
func (g *Grid) IsSplit(name string) bool {
	owner, i, err := g.find(name)
	return err == nil && owner.panels[i].split != nil
}

// Has reports whether a panel with this name exists.
func (g *Grid) Has(name string) bool {
	_, _, err := g.find(name)
	return err == nil
}

func validatePlan(name string, side Side, plan SplitPlan) error {
	if len(plan.RowRatios) == 0 && len(plan.ColRatios) == 0 {
		return errors.New(errors.ErrCodeInvalidRatio, "panel %q: split needs row or column ratios", name)
	}
	switch {
	case side.Horizontal() && len(plan.RowRatios) > 0:
		return errors.New(errors.ErrCodeInvalidRatio, "panel %q on %s can only be split into columns", name, side)
	case (side == Left || side == Right) && len(plan.ColRatios) > 0:
		return errors.New(errors.ErrCodeInvalidRatio, "panel %q on %s can only be split into rows", name, side)
	}
	if err := validateRatios(name, "row", plan.RowRatios, plan.HSpace); err != nil {
		return err
	}
	return validateRatios(name, "column", plan.ColRatios, plan.WSpace)
}

func validateRatios(name, axis string, ratios []float64, space float64) error {
	for _, r := range ratios {
		if !(r > 0) || math.IsInf(r, 0) {
			return errors.New(errors.ErrCodeInvalidRatio, "panel %q: %s ratios must be positive, got %v", name, axis, ratios)
		}
	}
	if !(space >= 0) || space >= 1 {
		return errors.New(errors.ErrCodeInvalidRatio, "panel %q: %s spacing must be in [0, 1), got %g", name, axis, space)
	}
	if len(ratios) > 1 && space*float64(len(ratios)-1) >= 1 {
		return errors.New(errors.ErrCodeInvalidRatio, "panel %q: %d %s gaps of %g leave no room for cells", name, len(ratios)-1, axis, space)
	}
	return nil
}

// find resolves a panel name to its owning grid and arena index. Plain
// names refer to g's own panels; "<grid>/<panel>" reaches into the member
// grid with that name.
func (g *Grid) find(name string) (*Grid, int, error) {
	if i, ok := g.index[name]; ok {
		return g, i, nil
	}
	if gridName, local, ok := strings.Cut(name, errors.NameSeparator); ok {
		if m := g.member(gridName); m != nil {
			if i, ok := m.index[local]; ok {
				return m, i, nil
			}
		}
	}
	return nil, 0, errors.New(errors.ErrCodeUnknownPanel, "no panel named %q in grid %q", name, g.name)
}

// member returns g or the grid nested in g with the given name, or nil.
func (g *Grid) member(name string) *Grid {
	if g.name == name {
		return g
	}
	if g.stack == nil {
		return nil
	}
	for _, m := range g.stack.members {
		if found := m.member(name); found != nil {
			return found
		}
	}
	return nil
}

// names returns the names of g and every grid nested in it.
func (g *Grid) names() []string {
	names := []string{g.name}
	if g.stack != nil {
		for _, m := range g.stack.members {
			names = append(names, m.names()...)
		}
	}
	return names
}

// extent returns the space consumed by the panels on one side.
func (g *Grid) extent(side Side) float64 {
	var total float64
	for _, i := range g.sides[side] {
		total += g.panels[i].size + g.panels[i].spec.Pad
	}
	return total
}

// clone returns a deep copy in building state.
func (g *Grid) clone() *Grid {
	c := &Grid{
		name:   g.name,
		width:  g.width,
		height: g.height,
		namer:  g.namer,
		panels: make([]panel, len(g.panels)),
		index:  make(map[string]int, len(g.index)),
	}
	for i, p := range g.panels {
		if p.split != nil {
			p.split = p.split.clone()
		}
		p.rect, p.cells = Rect{}, nil
		c.panels[i] = p
	}
	for k, v := range g.index {
		c.index[k] = v
	}
	for s := range g.sides {
		c.sides[s] = slices.Clone(g.sides[s])
	}
	if g.stack != nil {
		c.stack = g.stack.clone()
	}
	return c
}
