package screen

import (
	"fmt"

	"github.com/firebitsbr/singularity/ecs"
)

// Key is a keyboard key understood by the screens. Hosts map their own key codes
// onto it.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyQ
	KeyP
)

var keyNames = [...]string{
	KeyUnknown: "Unknown",
	KeyEscape:  "Escape",
	KeyEnter:   "Enter",
	KeySpace:   "Space",
	KeyQ:       "Q",
	KeyP:       "P",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// WindowEventKind classifies a WindowEvent.
type WindowEventKind int

const (
	WindowCloseRequested WindowEventKind = iota + 1
	WindowKeyDown
	WindowKeyUp
	WindowFocusLost
	WindowFocusGained
)

// Event is delivered to the top screen. It is one of WindowEvent, UIEvent or
// InputEvent.
type Event interface {
	isEvent()
}

// WindowEvent is a raw window notification. Key is set for key events only.
type WindowEvent struct {
	Kind WindowEventKind
	Key  Key
}

// UIEvent reports an interaction with a UI element.
type UIEvent struct {
	Target ecs.EntityId
	Action string
}

// InputEvent is a bound input action, e.g. a mouse click or gamepad axis.
type InputEvent struct {
	Action string
	X, Y   float32
}

func (WindowEvent) isEvent() {}
func (UIEvent) isEvent()     {}
func (InputEvent) isEvent()  {}

// CloseRequested returns the event a host sends when the user closes the window.
func CloseRequested() WindowEvent {
	return WindowEvent{Kind: WindowCloseRequested}
}

// FocusChanged returns the event a host sends when the window gains or loses
// input focus.
func FocusChanged(focused bool) WindowEvent {
	if focused {
		return WindowEvent{Kind: WindowFocusGained}
	}
	return WindowEvent{Kind: WindowFocusLost}
}

// KeyDown returns a key press event.
func KeyDown(key Key) WindowEvent {
	return WindowEvent{Kind: WindowKeyDown, Key: key}
}

// IsCloseRequested reports whether ev asks to close the window.
func IsCloseRequested(ev Event) bool {
	w, ok := ev.(WindowEvent)
	return ok && w.Kind == WindowCloseRequested
}

// IsKeyDown reports whether ev is a press of key.
func IsKeyDown(ev Event, key Key) bool {
	w, ok := ev.(WindowEvent)
	return ok && w.Kind == WindowKeyDown && w.Key == key
}
