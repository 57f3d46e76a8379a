package sapling

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scriptStep is one action of an input script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	FromX  float64 `yaml:"from_x"`
	FromY  float64 `yaml:"from_y"`
	ToX    float64 `yaml:"to_x"`
	ToY    float64 `yaml:"to_y"`
	Frames int     `yaml:"frames"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// InputScript plays a list of clicks, drags, waits and screenshots into a
// scene, one step per frame once the previous step's input has drained.
//
//	steps:
//	  - {action: screenshot, label: initial}
//	  - {action: click, x: 100, y: 200}
//	  - {action: wait, frames: 3}
//	  - {action: drag, from_x: 0, from_y: 0, to_x: 50, to_y: 0, frames: 10}
type InputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	input     *InjectedInput
}

// ParseInputScript decodes a YAML (or JSON) input script.
func ParseInputScript(data []byte) (*InputScript, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sapling: unmarshal input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("sapling: input script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("sapling: input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{steps: f.Steps}, nil
}

// LoadInputScript reads and decodes an input script file.
func LoadInputScript(path string) (*InputScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sapling: load %s: %w", path, err)
	}
	script, err := ParseInputScript(data)
	if err != nil {
		return nil, fmt.Errorf("sapling: %s: %w", path, err)
	}
	return script, nil
}

// SetInputScript attaches script to the scene and makes the scene's UI read
// its input from the script. Pass nil to detach; the input source is left
// as it is.
func (s *Scene) SetInputScript(script *InputScript) {
	s.script = script
	if script == nil {
		return
	}
	if in, ok := s.input.(*InjectedInput); ok {
		script.input = in
		return
	}
	script.input = &InjectedInput{}
	s.input = script.input
}

// Done reports whether every step has run and its input has drained.
func (r *InputScript) Done() bool {
	return r.done
}

// step advances the script by one frame. Called at the start of Scene.Step.
func (r *InputScript) step(s *Scene) {
	if r.done {
		return
	}
	if r.input.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		r.input.InjectClick(st.X, st.Y)
	case "drag":
		r.input.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			// This frame counts as one.
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.input.Pending() == 0 {
		r.done = true
	}
}
