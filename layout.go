package sapling

// Layout positions a view's children. Each view carries its own strategy, so
// a stack panel and a free-form canvas can sit in the same tree.
type Layout interface {
	// ContentSize returns the size of the box enclosing the view's active
	// children, excluding the view's padding. Used by FitContents.
	ContentSize(ui *UI, v *View) Vec2
	// Arrange writes the local positions of the view's active children.
	Arrange(ui *UI, v *View)
}

// Direction is the main axis of a StackLayout.
type Direction uint8

const (
	Row    Direction = iota // children left to right
	Column                  // children top to bottom
)

// UpdateLayout recomputes sizes and local positions for the tree rooted at
// id. Sizes are measured bottom-up first so that fit-to-contents parents see
// their children's final sizes; positions are then arranged top-down.
// Inactive children and their subtrees are skipped.
//
// World transforms are not touched; call UpdateTransforms afterwards.
func (ui *UI) UpdateLayout(id ViewID) {
	ui.measure(id)
	ui.arrange(id)
}

func (ui *UI) measure(id ViewID) {
	v := ui.get(id)
	for _, c := range v.children {
		if cv := ui.View(c); cv != nil && cv.active {
			ui.measure(c)
		}
	}
	if v.Props.Flags&FitContents != 0 {
		content := v.layout().ContentSize(ui, v)
		v.Width = content.X + v.Props.Padding.Horizontal()
		v.Height = content.Y + v.Props.Padding.Vertical()
	}
}

func (ui *UI) arrange(id ViewID) {
	v := ui.get(id)
	v.layout().Arrange(ui, v)
	for _, c := range v.children {
		if cv := ui.View(c); cv != nil && cv.active {
			ui.arrange(c)
		}
	}
}

func (v *View) layout() Layout {
	if v.Layout == nil {
		return FreeLayout{}
	}
	return v.Layout
}

// activeChildren calls fn for each active child with its local transform and
// its extent in the parent's units (size times local scale).
func (ui *UI) activeChildren(v *View, fn func(cv *View, local *Transform, extent Vec2)) {
	for _, c := range v.children {
		cv := ui.View(c)
		if cv == nil || !cv.active {
			continue
		}
		local := ui.tree.LocalRef(cv.node)
		fn(cv, local, Vec2{cv.Width * local.Scale.X, cv.Height * local.Scale.Y})
	}
}

// contentBox returns the start and end corners of v's padded content box in
// v's local units.
func contentBox(v *View) (start, end Vec2) {
	p := v.Props.Padding
	return Vec2{p.Left, p.Top}, Vec2{v.Width - p.Right, v.Height - p.Bottom}
}

// alignAxis returns the position of a child of the given extent on one axis.
// ok is false for AlignUnaligned.
func alignAxis(a Alignment, start, end, extent, marginStart, marginEnd float64) (pos float64, ok bool) {
	switch a {
	case AlignStart:
		return start + marginStart, true
	case AlignCenter:
		return start + (end-start-extent)/2 + (marginStart-marginEnd)/2, true
	case AlignEnd:
		return end - extent - marginEnd, true
	default:
		return 0, false
	}
}

// FreeLayout places each child independently by its alignment and margins.
// An unaligned axis keeps the child's own local position.
type FreeLayout struct{}

// ContentSize implements Layout.
func (FreeLayout) ContentSize(ui *UI, v *View) Vec2 {
	var size Vec2
	pad := v.Props.Padding
	ui.activeChildren(v, func(cv *View, local *Transform, ext Vec2) {
		m := cv.Props.Margin
		w := m.Left + ext.X + m.Right
		if cv.Props.Horizontal == AlignUnaligned {
			w = local.Position.X - pad.Left + ext.X + m.Right
		}
		h := m.Top + ext.Y + m.Bottom
		if cv.Props.Vertical == AlignUnaligned {
			h = local.Position.Y - pad.Top + ext.Y + m.Bottom
		}
		size.X = max(size.X, w)
		size.Y = max(size.Y, h)
	})
	return size
}

// Arrange implements Layout.
func (FreeLayout) Arrange(ui *UI, v *View) {
	start, end := contentBox(v)
	ui.activeChildren(v, func(cv *View, local *Transform, ext Vec2) {
		m := cv.Props.Margin
		if x, ok := alignAxis(cv.Props.Horizontal, start.X, end.X, ext.X, m.Left, m.Right); ok {
			local.Position.X = x
		}
		if y, ok := alignAxis(cv.Props.Vertical, start.Y, end.Y, ext.Y, m.Top, m.Bottom); ok {
			local.Position.Y = y
		}
	})
}

// StackLayout packs children one after another along Direction, separated
// by Spacing plus each child's margins. On the cross axis each child follows
// its own alignment; an unaligned child keeps its cross position.
type StackLayout struct {
	Direction Direction
	Spacing   float64
}

// ContentSize implements Layout.
func (s StackLayout) ContentSize(ui *UI, v *View) Vec2 {
	var main, cross float64
	n := 0
	ui.activeChildren(v, func(cv *View, _ *Transform, ext Vec2) {
		ms, me, cs, ce, em, ec := s.axes(cv.Props.Margin, ext)
		main += ms + em + me
		cross = max(cross, cs+ec+ce)
		n++
	})
	if n > 1 {
		main += s.Spacing * float64(n-1)
	}
	if s.Direction == Column {
		return Vec2{cross, main}
	}
	return Vec2{main, cross}
}

// Arrange implements Layout.
func (s StackLayout) Arrange(ui *UI, v *View) {
	start, end := contentBox(v)
	cursor := start.X
	if s.Direction == Column {
		cursor = start.Y
	}
	ui.activeChildren(v, func(cv *View, local *Transform, ext Vec2) {
		ms, me, cs, ce, em, ec := s.axes(cv.Props.Margin, ext)
		pos := cursor + ms
		cursor = pos + em + me + s.Spacing
		if s.Direction == Column {
			local.Position.Y = pos
			if x, ok := alignAxis(cv.Props.Horizontal, start.X, end.X, ec, cs, ce); ok {
				local.Position.X = x
			}
			return
		}
		local.Position.X = pos
		if y, ok := alignAxis(cv.Props.Vertical, start.Y, end.Y, ec, cs, ce); ok {
			local.Position.Y = y
		}
	})
}

// axes splits margins and extent into main-axis and cross-axis parts.
func (s StackLayout) axes(m Edges, ext Vec2) (mainStart, mainEnd, crossStart, crossEnd, extMain, extCross float64) {
	if s.Direction == Column {
		return m.Top, m.Bottom, m.Left, m.Right, ext.Y, ext.X
	}
	return m.Left, m.Right, m.Top, m.Bottom, ext.X, ext.Y
}
