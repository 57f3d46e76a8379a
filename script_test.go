package sapling

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseInputScript(t *testing.T) {
	data := []byte(`
steps:
  - {action: screenshot, label: initial}
  - {action: click, x: 100, y: 200}
  - {action: wait, frames: 3}
  - {action: drag, from_x: 1, from_y: 2, to_x: 3, to_y: 4, frames: 5}
`)
	script, err := ParseInputScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(script.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(script.steps))
	}
	if script.steps[0].Action != "screenshot" || script.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if script.steps[1].X != 100 || script.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if st := script.steps[3]; st.FromX != 1 || st.FromY != 2 || st.ToX != 3 || st.ToY != 4 || st.Frames != 5 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestParseInputScriptJSON(t *testing.T) {
	script, err := ParseInputScript([]byte(`{"steps": [{"action": "click", "x": 5, "y": 6}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if script.steps[0].X != 5 {
		t.Errorf("step = %+v", script.steps[0])
	}
}

func TestParseInputScriptErrors(t *testing.T) {
	cases := map[string]string{
		"invalid": `steps: [`,
		"empty":   `steps: []`,
		"unknown": `steps: [{action: jump}]`,
	}
	for name, data := range cases {
		if _, err := ParseInputScript([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadInputScriptMissing(t *testing.T) {
	if _, err := LoadInputScript(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadInputScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - {action: wait, frames: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	script, err := LoadInputScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(script.steps) != 1 {
		t.Errorf("steps = %d", len(script.steps))
	}
}

func TestInputScriptClicksView(t *testing.T) {
	s := NewScene()
	ui := NewUI()
	root := ui.NewView("root", ViewProps{}, IdentityTransform(), 200, 200)
	clicks := 0
	ui.View(root).OnTouchUp = func(TouchContext) { clicks++ }
	s.SetUI(ui, root)

	script, err := ParseInputScript([]byte(`steps: [{action: click, x: 50, y: 50}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputScript(script)

	for i := 0; i < 4 && !script.Done(); i++ {
		if err := s.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if !script.Done() {
		t.Error("script not done")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestInputScriptWait(t *testing.T) {
	s := NewScene()
	script, err := ParseInputScript([]byte(`steps: [{action: wait, frames: 3}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputScript(script)

	frames := 0
	for !script.Done() && frames < 10 {
		if err := s.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
		frames++
	}
	if frames != 4 {
		t.Errorf("script finished after %d frames, want 4", frames)
	}
}

func TestInputScriptReusesInjectedInput(t *testing.T) {
	s := NewScene()
	in := &InjectedInput{}
	s.SetInput(in)
	script, err := ParseInputScript([]byte(`steps: [{action: click, x: 1, y: 1}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputScript(script)
	if script.input != in {
		t.Error("script should feed the scene's existing InjectedInput")
	}
}

func TestInputScriptQueuesScreenshot(t *testing.T) {
	s := NewScene()
	script, err := ParseInputScript([]byte(`steps: [{action: screenshot, label: start}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputScript(script)
	if err := s.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if len(s.screenshots) != 1 || s.screenshots[0] != "start" {
		t.Errorf("queue = %v", s.screenshots)
	}
}
