package sapling

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ViewSpec is the YAML description of a view and its subtree.
//
//	name: panel
//	position: {x: 10, y: 10}
//	width: 200
//	height: 100
//	layout: column
//	spacing: 4
//	padding: {left: 8, right: 8, top: 8, bottom: 8}
//	children:
//	  - name: ok
//	    width: 80
//	    height: 24
//	    horizontal: center
type ViewSpec struct {
	Name     string  `yaml:"name"`
	Position Vec2    `yaml:"position"`
	Rotation float64 `yaml:"rotation"`
	// Scale defaults to (1, 1).
	Scale  *Vec2   `yaml:"scale"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	FitContents bool   `yaml:"fit_contents"`
	Horizontal  string `yaml:"horizontal"` // unaligned (default), start, center, end
	Vertical    string `yaml:"vertical"`
	Margin      Edges  `yaml:"margin"`
	Padding     Edges  `yaml:"padding"`

	Layout  string  `yaml:"layout"` // free (default), row, column
	Spacing float64 `yaml:"spacing"`

	Background Color      `yaml:"background"`
	Label      *LabelSpec `yaml:"label"`
	// Active and Visible default to true.
	Active  *bool `yaml:"active"`
	Visible *bool `yaml:"visible"`

	Children []ViewSpec `yaml:"children"`
}

// LabelSpec describes a view's label. Color defaults to white; the font is
// the renderer's.
type LabelSpec struct {
	Text       string `yaml:"text"`
	Color      *Color `yaml:"color"`
	Horizontal string `yaml:"horizontal"`
	Vertical   string `yaml:"vertical"`
}

func (l *LabelSpec) label() *Label {
	h, _ := parseAlignment(l.Horizontal)
	vert, _ := parseAlignment(l.Vertical)
	c := ColorWhite
	if l.Color != nil {
		c = *l.Color
	}
	return &Label{Text: l.Text, Color: c, Horizontal: h, Vertical: vert}
}

// ParseUI decodes a YAML view tree.
func ParseUI(data []byte) (ViewSpec, error) {
	var spec ViewSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return ViewSpec{}, fmt.Errorf("sapling: unmarshal ui: %w", err)
	}
	if err := spec.validate(); err != nil {
		return ViewSpec{}, err
	}
	return spec, nil
}

// LoadUI reads and decodes a YAML view tree file.
func LoadUI(path string) (ViewSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ViewSpec{}, fmt.Errorf("sapling: load %s: %w", path, err)
	}
	spec, err := ParseUI(data)
	if err != nil {
		return ViewSpec{}, fmt.Errorf("sapling: %s: %w", path, err)
	}
	return spec, nil
}

func (s *ViewSpec) validate() error {
	if _, err := parseAlignment(s.Horizontal); err != nil {
		return fmt.Errorf("sapling: view %q: horizontal: %w", s.Name, err)
	}
	if _, err := parseAlignment(s.Vertical); err != nil {
		return fmt.Errorf("sapling: view %q: vertical: %w", s.Name, err)
	}
	if _, err := parseLayout(s.Layout, s.Spacing); err != nil {
		return fmt.Errorf("sapling: view %q: %w", s.Name, err)
	}
	if s.Label != nil {
		if _, err := parseAlignment(s.Label.Horizontal); err != nil {
			return fmt.Errorf("sapling: view %q: label horizontal: %w", s.Name, err)
		}
		if _, err := parseAlignment(s.Label.Vertical); err != nil {
			return fmt.Errorf("sapling: view %q: label vertical: %w", s.Name, err)
		}
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("sapling: view %q: negative size %vx%v", s.Name, s.Width, s.Height)
	}
	for i := range s.Children {
		if err := s.Children[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func parseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(s) {
	case "", "unaligned", "none":
		return AlignUnaligned, nil
	case "start", "left", "top":
		return AlignStart, nil
	case "center", "middle":
		return AlignCenter, nil
	case "end", "right", "bottom":
		return AlignEnd, nil
	default:
		return AlignUnaligned, fmt.Errorf("unknown alignment %q", s)
	}
}

func parseLayout(s string, spacing float64) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "free":
		return FreeLayout{}, nil
	case "row":
		return StackLayout{Direction: Row, Spacing: spacing}, nil
	case "column":
		return StackLayout{Direction: Column, Spacing: spacing}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", s)
	}
}

// Build creates the described views in ui and returns the root. The tree is
// built top-down so every child is attached with its described position as its
// local position. bind, when non-nil, is called for each created view so the
// caller can attach hooks by name.
func (s ViewSpec) Build(ui *UI, bind func(v *View)) (ViewID, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	return s.build(ui, bind), nil
}

func (s ViewSpec) build(ui *UI, bind func(v *View)) ViewID {
	h, _ := parseAlignment(s.Horizontal)
	vert, _ := parseAlignment(s.Vertical)
	layout, _ := parseLayout(s.Layout, s.Spacing)

	props := ViewProps{Horizontal: h, Vertical: vert, Margin: s.Margin, Padding: s.Padding}
	if s.FitContents {
		props.Flags |= FitContents
	}
	id := ui.NewView(s.Name, props, s.local(), s.Width, s.Height)
	v := ui.get(id)
	v.Layout = layout
	v.Background = s.Background
	if s.Label != nil {
		v.Label = s.Label.label()
	}

	for _, cs := range s.Children {
		c := cs.build(ui, bind)
		ui.AddChild(id, c)
		// AddChild keeps the world pose; the YAML position is local.
		ui.SetLocal(c, cs.local())
	}

	if s.Active != nil && !*s.Active {
		ui.SetActive(id, false)
	}
	if s.Visible != nil && !*s.Visible {
		ui.SetVisible(id, false)
	}
	if bind != nil {
		bind(v)
	}
	return id
}

func (s ViewSpec) local() Transform {
	scale := Vec2{1, 1}
	if s.Scale != nil {
		scale = *s.Scale
	}
	return NewTransform(s.Position, s.Rotation, scale)
}

// ReplaceTree builds spec and puts it in place of old: same parent, same
// position among its siblings. The old subtree is freed. Returns the new
// root.
func (ui *UI) ReplaceTree(old ViewID, spec ViewSpec, bind func(v *View)) (ViewID, error) {
	id, err := spec.Build(ui, bind)
	if err != nil {
		return 0, err
	}
	ov := ui.get(old)
	if parent := ov.parent; parent != 0 {
		pv := ui.get(parent)
		pos := -1
		for i, c := range pv.children {
			if c == old {
				pos = i
				break
			}
		}
		ui.AddChild(parent, id)
		ui.SetLocal(id, spec.local())
		if pos >= 0 {
			// Move the new child from the end into the old slot.
			last := len(pv.children) - 1
			copy(pv.children[pos+1:], pv.children[pos:last])
			pv.children[pos] = id
		}
	}
	ui.FreeTree(old)
	return id, nil
}
