// Package graphics provides an abstraction layer for different rendering
// backends so the emulator core stays independent of any windowing stack.
package graphics

// Display dimensions of the Game Boy LCD.
const (
	Width  = 160
	Height = 144
)

// Backend represents a graphics rendering backend (Ebitengine, headless,
// terminal).
type Backend interface {
	// Initialize initializes the graphics backend.
	Initialize(config Config) error

	// CreateWindow creates a window for rendering.
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources.
	Cleanup() error

	// IsHeadless returns true if running in headless mode.
	IsHeadless() bool

	// GetName returns the backend name for identification.
	GetName() string
}

// Window represents a rendering surface.
type Window interface {
	// SetTitle sets the window title.
	SetTitle(title string)

	// GetSize returns window dimensions.
	GetSize() (width, height int)

	// ShouldClose returns true if the window should close.
	ShouldClose() bool

	// PollEvents processes input events.
	PollEvents() []InputEvent

	// RenderFrame renders one RGB frame to the window.
	RenderFrame(frameBuffer [Width * Height]uint32) error

	// Cleanup releases window resources.
	Cleanup() error
}

// Config contains configuration for graphics backends.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	Filter string // "nearest", "linear"

	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window.
type InputEvent struct {
	Type    InputEventType
	Key     Key
	Button  Button
	Pressed bool
}

// InputEventType represents the type of input event.
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key represents keyboard keys the backends report.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyJ
	KeyK
	KeyP
	KeyR
	KeyF1
	KeyF2
	KeyF3
	KeyF4
)

// Button represents Game Boy buttons.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// BackendType represents different graphics backend types.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow tries to cast a Window to EbitengineWindow.
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	if ebitengineWindow, ok := window.(*EbitengineWindow); ok {
		return ebitengineWindow, true
	}
	return nil, false
}
