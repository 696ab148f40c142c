package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newGrid(t *testing.T, w, h float64, name string) *Grid {
	t.Helper()
	g, err := New(w, h, WithName(name))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func mustAdd(t *testing.T, g *Grid, spec PanelSpec) {
	t.Helper()
	if err := g.AddPanel(spec); err != nil {
		t.Fatalf("AddPanel(%s): %v", spec.Name, err)
	}
}

func mustGet(t *testing.T, g *Grid, name string) Panel {
	t.Helper()
	p, err := g.Get(name)
	if err != nil {
		t.Fatalf("Get(%s): %v", name, err)
	}
	return p
}

func TestNew(t *testing.T) {
	g, err := New(4, 3, WithNamer(NewCounterNamer()))
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "grid-1" {
		t.Errorf("Name() = %q, want grid-1", g.Name())
	}
	if !g.Has(MainName) || g.IsComposite() || g.IsFrozen() {
		t.Error("fresh grid state wrong")
	}

	for _, tc := range []struct{ w, h float64 }{{0, 1}, {1, -1}} {
		if _, err := New(tc.w, tc.h); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New(%v, %v) err = %v", tc.w, tc.h, err)
		}
	}
	if _, err := New(1, 1, WithName("a/b")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("slash in name: err = %v", err)
	}
}

func TestAddPanel_Errors(t *testing.T) {
	g := newGrid(t, 4, 4, "g")
	mustAdd(t, g, PanelSpec{Name: "labels", Side: Left, Size: Fixed(1)})

	tests := []struct {
		name string
		spec PanelSpec
		code errors.Code
	}{
		{"duplicate", PanelSpec{Name: "labels", Side: Right, Size: Fixed(1)}, errors.ErrCodeDuplicateName},
		{"main name", PanelSpec{Name: MainName, Side: Top, Size: Fixed(1)}, errors.ErrCodeDuplicateName},
		{"main side", PanelSpec{Name: "x", Side: Main, Size: Fixed(1)}, errors.ErrCodeInvalidInput},
		{"negative size", PanelSpec{Name: "x", Side: Top, Size: Fixed(-1)}, errors.ErrCodeInvalidInput},
		{"negative pad", PanelSpec{Name: "x", Side: Top, Size: Fixed(1), Pad: -0.1}, errors.ErrCodeInvalidInput},
		{"empty name", PanelSpec{Side: Top, Size: Fixed(1)}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.CheckPanel(tt.spec); !errors.Is(err, tt.code) {
				t.Errorf("CheckPanel err = %v, want %s", err, tt.code)
			}
			if err := g.AddPanel(tt.spec); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
	if err := g.CheckPanel(PanelSpec{Name: "free", Side: Top, Size: Fixed(1)}); err != nil {
		t.Errorf("CheckPanel on a valid spec: %v", err)
	}
	if g.Has("free") {
		t.Error("CheckPanel added the panel")
	}
}

func TestFreeze_SidesStackOutward(t *testing.T) {
	g := newGrid(t, 10, 8, "g")
	mustAdd(t, g, PanelSpec{Name: "t1", Side: Top, Size: Fixed(1)})
	mustAdd(t, g, PanelSpec{Name: "t2", Side: Top, Size: Fixed(0.5), Pad: 0.25})
	mustAdd(t, g, PanelSpec{Name: "b1", Side: Bottom, Size: Fixed(1), Pad: 0.5})
	mustAdd(t, g, PanelSpec{Name: "l1", Side: Left, Size: Fixed(2)})
	mustAdd(t, g, PanelSpec{Name: "r1", Side: Right, Size: Fixed(1)})
	mustAdd(t, g, PanelSpec{Name: "r2", Side: Right, Size: Fixed(1), Pad: 1})

	if err := g.Freeze(10, 8, 0); err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	want := map[string]Rect{
		MainName: {X: 2, Y: 1.75, W: 5, H: 4.75},
		"t1":     {X: 2, Y: 0.75, W: 5, H: 1},
		"t2":     {X: 2, Y: 0, W: 5, H: 0.5},
		"b1":     {X: 2, Y: 7, W: 5, H: 1},
		"l1":     {X: 0, Y: 1.75, W: 2, H: 4.75},
		"r1":     {X: 7, Y: 1.75, W: 1, H: 4.75},
		"r2":     {X: 9, Y: 1.75, W: 1, H: 4.75},
	}
	for name, rect := range want {
		if diff := cmp.Diff(rect, mustGet(t, g, name).Rect, approx); diff != "" {
			t.Errorf("%s rect mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestFreeze_AspectShrinksMainOnly(t *testing.T) {
	g := newGrid(t, 6, 4, "g")
	mustAdd(t, g, PanelSpec{Name: "left", Side: Left, Size: Fixed(1)})
	mustAdd(t, g, PanelSpec{Name: "top", Side: Top, Size: Fixed(1)})

	// Main area is 5x3; aspect 1 makes it 3x3 centred horizontally.
	if err := g.Freeze(6, 4, 1); err != nil {
		t.Fatal(err)
	}
	main := mustGet(t, g, MainName).Rect
	if diff := cmp.Diff(Rect{X: 2, Y: 1, W: 3, H: 3}, main, approx); diff != "" {
		t.Errorf("main mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Rect{X: 1, Y: 1, W: 1, H: 3}, mustGet(t, g, "left").Rect, approx); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Rect{X: 2, Y: 0, W: 3, H: 1}, mustGet(t, g, "top").Rect, approx); diff != "" {
		t.Errorf("top mismatch (-want +got):\n%s", diff)
	}
}

func TestFreeze_AutoPanel(t *testing.T) {
	g := newGrid(t, 5, 5, "g")
	mustAdd(t, g, PanelSpec{Name: "left", Side: Left, Size: Auto()})

	err := g.Freeze(5, 5, 0)
	if !errors.Is(err, errors.ErrCodeUnresolvedSize) {
		t.Fatalf("err = %v, want UNRESOLVED_SIZE", err)
	}
	if g.IsFrozen() {
		t.Fatal("failed freeze must leave the grid building")
	}

	if err := g.SetMeasuredSize("left", 1.2); err != nil {
		t.Fatal(err)
	}
	if err := g.Freeze(5, 5, 0); err != nil {
		t.Fatalf("Freeze after measuring: %v", err)
	}
	if got := mustGet(t, g, "left").Rect.W; got != 1.2 {
		t.Errorf("left width = %v, want 1.2", got)
	}
}

func TestFreeze_Lifecycle(t *testing.T) {
	g := newGrid(t, 4, 4, "g")
	if _, err := g.Get(MainName); !errors.Is(err, errors.ErrCodeNotFrozen) {
		t.Errorf("Get before freeze: err = %v", err)
	}
	if _, err := g.Panels(); !errors.Is(err, errors.ErrCodeNotFrozen) {
		t.Errorf("Panels before freeze: err = %v", err)
	}
	if err := g.Freeze(4, 4, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Freeze(4, 4, 0); !errors.Is(err, errors.ErrCodeAlreadyFrozen) {
		t.Errorf("second Freeze: err = %v", err)
	}
	if err := g.AddPanel(PanelSpec{Name: "x", Side: Top}); !errors.Is(err, errors.ErrCodeAlreadyFrozen) {
		t.Errorf("AddPanel after freeze: err = %v", err)
	}
	if err := g.Split(MainName, SplitPlan{RowRatios: []float64{1, 1}}); !errors.Is(err, errors.ErrCodeAlreadyFrozen) {
		t.Errorf("Split after freeze: err = %v", err)
	}
	if _, err := g.Get("missing"); !errors.Is(err, errors.ErrCodeUnknownPanel) {
		t.Errorf("Get unknown: err = %v", err)
	}
}

func TestFreeze_CanvasTooSmall(t *testing.T) {
	g := newGrid(t, 4, 4, "g")
	mustAdd(t, g, PanelSpec{Name: "l", Side: Left, Size: Fixed(3)})
	mustAdd(t, g, PanelSpec{Name: "r", Side: Right, Size: Fixed(2)})
	if err := g.Freeze(4, 4, 0); !errors.Is(err, errors.ErrCodeCanvasTooSmall) {
		t.Errorf("err = %v, want CANVAS_TOO_SMALL", err)
	}
	if err := g.Freeze(0, 4, 0); !errors.Is(err, errors.ErrCodeCanvasTooSmall) {
		t.Errorf("zero canvas: err = %v", err)
	}
	if err := g.Freeze(6, 4, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative aspect: err = %v", err)
	}
}

func TestSetMeasuredSize_Errors(t *testing.T) {
	g := newGrid(t, 4, 4, "g")
	mustAdd(t, g, PanelSpec{Name: "l", Side: Left, Size: Auto()})
	if err := g.SetMeasuredSize("nope", 1); !errors.Is(err, errors.ErrCodeUnknownPanel) {
		t.Errorf("unknown: err = %v", err)
	}
	if err := g.SetMeasuredSize(MainName, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("main: err = %v", err)
	}
	if err := g.SetMeasuredSize("l", -2); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative: err = %v", err)
	}
	if err := g.SetMeasuredSize("l", 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Freeze(4, 4, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.SetMeasuredSize("l", 2); !errors.Is(err, errors.ErrCodeAlreadyFrozen) {
		t.Errorf("after freeze: err = %v", err)
	}
}

func TestAddPad(t *testing.T) {
	g, err := New(4, 4, WithName("g"), WithNamer(NewCounterNamer()))
	if err != nil {
		t.Fatal(err)
	}
	name, err := g.AddPad(Right, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if name != "pad-1" {
		t.Errorf("pad name = %q", name)
	}
	mustAdd(t, g, PanelSpec{Name: "legend", Side: Right, Size: Fixed(1)})
	if err := g.Freeze(4, 4, 0); err != nil {
		t.Fatal(err)
	}
	if got := mustGet(t, g, "legend").Rect.X; got != 3 {
		t.Errorf("legend x = %v, want 3", got)
	}
}

func TestNamers(t *testing.T) {
	c := NewCounterNamer()
	got := []string{c.Next("pad"), c.Next("pad"), c.Next("grid")}
	if diff := cmp.Diff([]string{"pad-1", "pad-2", "grid-1"}, got); diff != "" {
		t.Errorf("counter names mismatch (-want +got):\n%s", diff)
	}

	u := UUIDNamer{}
	a, b := u.Next("grid"), u.Next("grid")
	if a == b || len(a) != len("grid-")+32 {
		t.Errorf("uuid names %q, %q", a, b)
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{Main, Top, Bottom, Left, Right} {
		got, err := ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSide("middle"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 4, H: 6}
	if r.Right() != 5 || r.Bottom() != 8 || r.CenterX() != 3 || r.CenterY() != 5 {
		t.Errorf("rect accessors wrong for %+v", r)
	}
	if diff := cmp.Diff(Rect{X: 0, Y: 0, W: 4, H: 6}, r.Offset(-1, -2)); diff != "" {
		t.Errorf("Offset mismatch (-want +got):\n%s", diff)
	}
}
