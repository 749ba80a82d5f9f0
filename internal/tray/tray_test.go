package tray

import "testing"

func TestTitles(t *testing.T) {
	if got := toggleTitle(true); got != "● Gestures on" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Gestures off" {
		t.Errorf("toggleTitle(false) = %q", got)
	}
	if got := lastTitle("click"); got != "Last: click" {
		t.Errorf("lastTitle() = %q", got)
	}
}

func TestTray_ToggleCallsBack(t *testing.T) {
	tr := New(true)

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.toggle()
	tr.toggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("IsEnabled() = false after two toggles")
	}
}

func TestTray_SetEnabledWithoutMenu(t *testing.T) {
	tr := New(true)
	called := false
	tr.OnToggle(func(bool) { called = true })

	tr.SetEnabled(false)

	if tr.IsEnabled() {
		t.Error("SetEnabled(false) not applied")
	}
	if called {
		t.Error("SetEnabled must not call the toggle callback")
	}
}

func TestTray_SetLastIntent(t *testing.T) {
	tr := New(false)
	if tr.LastIntent() != "none" {
		t.Errorf("initial LastIntent() = %q", tr.LastIntent())
	}

	tr.SetLastIntent("move")
	if tr.LastIntent() != "move" {
		t.Errorf("LastIntent() = %q, want move", tr.LastIntent())
	}

	tr.SetLastIntent("")
	if tr.LastIntent() != "none" {
		t.Errorf("LastIntent() = %q, want none", tr.LastIntent())
	}
}
