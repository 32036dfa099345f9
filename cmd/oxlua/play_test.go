package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPlayModelCompilesSampleOnStart(t *testing.T) {
	m := newPlayModel()
	if m.outputIsErr {
		t.Fatalf("sample source should compile, got: %s", m.output)
	}
	if !strings.Contains(m.output, "function abs(x: number): number") {
		t.Fatalf("unexpected sample output: %s", m.output)
	}
}

func TestPlayModelQuitKeyReturnsQuit(t *testing.T) {
	m := newPlayModel()

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	pm, ok := model.(playModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	if !pm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestPlayModelRecompilesOnEdit(t *testing.T) {
	m := newPlayModel()
	m.editor.SetValue("fn main() { broken(")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	pm := model.(playModel)
	if !pm.outputIsErr {
		t.Fatalf("expected an error diagnostic, got: %s", pm.output)
	}
	if !strings.Contains(pm.output, "PARSE ERROR") {
		t.Fatalf("unexpected diagnostic: %s", pm.output)
	}
}

func TestPlayModelResetRestoresSample(t *testing.T) {
	m := newPlayModel()
	m.editor.SetValue("fn main() { broken(")
	m.recompile()
	if !m.outputIsErr {
		t.Fatalf("expected broken state before reset")
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	pm := model.(playModel)
	if pm.outputIsErr {
		t.Fatalf("reset should restore a compiling sample, got: %s", pm.output)
	}
	if pm.editor.Value() != sampleSource {
		t.Fatalf("editor not reset to sample")
	}
}

func TestPlayModelFormatKeyCanonicalizesSource(t *testing.T) {
	m := newPlayModel()
	m.editor.SetValue("fn main(){print(1);}")
	m.recompile()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	pm := model.(playModel)
	if pm.editor.Value() != "fn main() {\n  print(1);\n}\n" {
		t.Fatalf("source not formatted: %q", pm.editor.Value())
	}
	if pm.outputIsErr {
		t.Fatalf("formatted source should still compile: %s", pm.output)
	}
}

func TestPlayModelViewBeforeSize(t *testing.T) {
	m := newPlayModel()
	if m.View() != "Loading..." {
		t.Fatalf("expected loading placeholder before first size message")
	}

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	pm := model.(playModel)
	if !pm.initialized {
		t.Fatalf("size message should initialize the model")
	}
	if view := pm.View(); !strings.Contains(view, "oxlua playground") {
		t.Fatalf("view missing header")
	}
}
