package sapling

import "testing"

func pad(n float64) Edges { return Edges{n, n, n, n} }

func addView(ui *UI, parent ViewID, name string, props ViewProps, w, h float64) ViewID {
	return ui.AddChild(parent, ui.NewView(name, props, IdentityTransform(), w, h))
}

func TestFreeLayoutAlign(t *testing.T) {
	cases := []struct {
		name   string
		props  ViewProps
		expect Vec2
	}{
		{"center", ViewProps{Horizontal: AlignCenter, Vertical: AlignCenter}, Vec2{40, 45}},
		{"start", ViewProps{Horizontal: AlignStart, Vertical: AlignStart, Margin: Edges{Left: 5, Top: 3}}, Vec2{15, 13}},
		{"end", ViewProps{Horizontal: AlignEnd, Vertical: AlignEnd, Margin: Edges{Right: 5, Bottom: 3}}, Vec2{65, 77}},
		{"center with margins", ViewProps{Horizontal: AlignCenter, Vertical: AlignCenter, Margin: Edges{Left: 6, Right: 2}}, Vec2{42, 45}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ui := NewUI()
			root := ui.NewView("root", ViewProps{Padding: pad(10)}, IdentityTransform(), 100, 100)
			c := addView(ui, root, "c", tc.props, 20, 10)
			ui.UpdateLayout(root)
			assertVec(t, "position", ui.Local(c).Position, tc.expect)
		})
	}
}

func TestFreeLayoutUnalignedKeepsPosition(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Padding: pad(10)}, IdentityTransform(), 100, 100)
	c := addView(ui, root, "c", ViewProps{Vertical: AlignEnd}, 20, 10)
	ui.SetPosition(c, 33, 0)
	ui.UpdateLayout(root)
	assertVec(t, "position", ui.Local(c).Position, Vec2{33, 80})
}

func TestFreeLayoutUsesChildScale(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Padding: pad(10)}, IdentityTransform(), 100, 100)
	c := addView(ui, root, "c", ViewProps{Horizontal: AlignEnd}, 20, 10)
	ui.SetLocal(c, NewTransform(Vec2{}, 0, Vec2{2, 2}))
	ui.UpdateLayout(root)
	assertNear(t, "x", ui.Local(c).Position.X, 50)
}

func TestStackLayoutRow(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Padding: pad(10)}, IdentityTransform(), 200, 100)
	ui.View(root).Layout = StackLayout{Direction: Row, Spacing: 5}
	a := addView(ui, root, "a", ViewProps{Vertical: AlignCenter}, 10, 10)
	b := addView(ui, root, "b", ViewProps{Margin: Edges{Left: 2, Right: 3}}, 20, 10)
	c := addView(ui, root, "c", ViewProps{Vertical: AlignEnd}, 30, 10)
	ui.UpdateLayout(root)

	assertVec(t, "a", ui.Local(a).Position, Vec2{10, 45})
	assertVec(t, "b", ui.Local(b).Position, Vec2{27, 0})
	assertVec(t, "c", ui.Local(c).Position, Vec2{55, 80})
}

func TestStackLayoutColumn(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{}, IdentityTransform(), 100, 200)
	ui.View(root).Layout = StackLayout{Direction: Column, Spacing: 4}
	a := addView(ui, root, "a", ViewProps{Horizontal: AlignCenter}, 20, 10)
	b := addView(ui, root, "b", ViewProps{Horizontal: AlignStart, Margin: Edges{Top: 1, Left: 7}}, 20, 30)
	c := addView(ui, root, "c", ViewProps{}, 20, 10)
	ui.UpdateLayout(root)

	assertVec(t, "a", ui.Local(a).Position, Vec2{40, 0})
	assertVec(t, "b", ui.Local(b).Position, Vec2{7, 15})
	assertVec(t, "c", ui.Local(c).Position, Vec2{0, 49})
}

func TestStackLayoutSkipsInactive(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{}, IdentityTransform(), 200, 100)
	ui.View(root).Layout = StackLayout{Direction: Row}
	addView(ui, root, "a", ViewProps{}, 10, 10)
	b := addView(ui, root, "b", ViewProps{}, 50, 10)
	c := addView(ui, root, "c", ViewProps{}, 10, 10)
	ui.SetActive(b, false)
	ui.UpdateLayout(root)
	assertNear(t, "c.x", ui.Local(c).Position.X, 10)
}

func TestFitContentsStack(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Flags: FitContents, Padding: pad(10)}, IdentityTransform(), 0, 0)
	ui.View(root).Layout = StackLayout{Direction: Row, Spacing: 5}
	addView(ui, root, "a", ViewProps{}, 10, 10)
	addView(ui, root, "b", ViewProps{Margin: Edges{Left: 2, Right: 3, Bottom: 4}}, 20, 16)
	addView(ui, root, "c", ViewProps{}, 30, 10)
	ui.UpdateLayout(root)

	v := ui.View(root)
	// 10 + (2+20+3) + 30 + 2*5 spacing, plus 20 padding.
	assertNear(t, "width", v.Width, 95)
	// 16 + 4 margin, plus 20 padding.
	assertNear(t, "height", v.Height, 40)
}

func TestFitContentsFreeUnaligned(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Flags: FitContents}, IdentityTransform(), 0, 0)
	c := addView(ui, root, "c", ViewProps{}, 10, 10)
	ui.SetPosition(c, 30, 40)
	ui.UpdateLayout(root)
	v := ui.View(root)
	assertNear(t, "width", v.Width, 40)
	assertNear(t, "height", v.Height, 50)
}

func TestFitContentsMeasuresBottomUp(t *testing.T) {
	ui := NewUI()
	outer := ui.NewView("outer", ViewProps{Flags: FitContents, Padding: pad(1)}, IdentityTransform(), 0, 0)
	inner := addView(ui, outer, "inner", ViewProps{Flags: FitContents, Padding: pad(2), Horizontal: AlignStart, Vertical: AlignStart}, 0, 0)
	ui.View(inner).Layout = StackLayout{Direction: Column}
	addView(ui, inner, "x", ViewProps{}, 8, 5)
	addView(ui, inner, "y", ViewProps{}, 6, 5)
	ui.UpdateLayout(outer)

	iv := ui.View(inner)
	assertNear(t, "inner width", iv.Width, 12)
	assertNear(t, "inner height", iv.Height, 14)
	ov := ui.View(outer)
	assertNear(t, "outer width", ov.Width, 14)
	assertNear(t, "outer height", ov.Height, 16)
	assertVec(t, "inner position", ui.Local(inner).Position, Vec2{1, 1})
}

func TestFitContentsIgnoresInactive(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{Flags: FitContents}, IdentityTransform(), 0, 0)
	ui.View(root).Layout = StackLayout{Direction: Row}
	addView(ui, root, "a", ViewProps{}, 10, 10)
	b := addView(ui, root, "b", ViewProps{}, 50, 50)
	ui.SetActive(b, false)
	ui.UpdateLayout(root)
	assertNear(t, "width", ui.View(root).Width, 10)
	assertNear(t, "height", ui.View(root).Height, 10)
}

func TestLayoutThenTransforms(t *testing.T) {
	ui := NewUI()
	root := ui.NewView("root", ViewProps{}, at(100, 50), 100, 100)
	c := addView(ui, root, "c", ViewProps{Horizontal: AlignEnd, Vertical: AlignEnd}, 10, 10)
	ui.UpdateLayout(root)
	ui.SyncTransforms(root)
	assertVec(t, "world", ui.View(c).World().Position, Vec2{190, 140})
}
