// Package tray provides the system tray menu for toggling gesture control.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the menu bar icon and its menu.
type Tray struct {
	mu        sync.RWMutex
	onToggle  func(enabled bool)
	onOpen    func()
	onQuit    func()
	enabled   bool
	lastLabel string

	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a Tray showing the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{enabled: enabled, lastLabel: "none"}
}

// OnToggle sets the callback run when the user flips the toggle item.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenPanel sets the callback run by "Open Control Panel...".
func (t *Tray) OnOpenPanel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run by "Quit".
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Gestures on"
	}
	return "○ Gestures off"
}

func lastTitle(label string) string {
	return "Last: " + label
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand gesture pointer")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Turn gesture control on or off")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(t.lastLabel), "Last dispatched intent")
	t.menuLast.Disable()
	t.mu.Unlock()

	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Control Panel...", "Open the control panel in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.toggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		go callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// toggle flips the state and reports it to the toggle callback.
func (t *Tray) toggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.setToggleTitle()
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// SetEnabled reflects a state change made elsewhere, such as the HTTP API.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	t.setToggleTitle()
}

func (t *Tray) setToggleTitle() {
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(t.enabled))
	}
}

// SetLastIntent shows label as the last dispatched intent. Repeated labels
// leave the menu untouched.
func (t *Tray) SetLastIntent(label string) {
	if label == "" {
		label = "none"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if label == t.lastLabel {
		return
	}
	t.lastLabel = label
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(label))
	}
}

// IsEnabled returns the state the menu shows.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// LastIntent returns the label the menu shows.
func (t *Tray) LastIntent() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastLabel
}
