package graphics

import (
	"fmt"
	"strings"
)

// TerminalBackend implements the Backend interface for terminal-based
// rendering.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface for terminal rendering.
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
}

// luminanceChars maps brightness to ASCII, darkest to lightest.
var luminanceChars = [4]string{" ", ".", "+", "#"}

// NewTerminalBackend creates a new terminal graphics backend.
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend.
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal "window".
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	return &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
	}, nil
}

// Cleanup releases all terminal resources.
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (the terminal has basic output).
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name.
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// SetTitle sets the terminal title.
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Printf("\033]0;%s\007", title)
}

// GetSize returns window dimensions.
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if the window should close.
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns no events; the terminal backend takes no input.
func (w *TerminalWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame renders the frame as ASCII art to the terminal, sampling
// every second pixel so a frame fits an 80-column display.
func (w *TerminalWindow) RenderFrame(frameBuffer [Width * Height]uint32) error {
	var b strings.Builder
	b.WriteString("\033[2J\033[H")

	for y := 0; y < Height; y += 4 {
		for x := 0; x < Width; x += 2 {
			pixel := frameBuffer[y*Width+x]
			b.WriteString(luminanceChars[luminance(pixel)])
		}
		b.WriteString("\n")
	}

	fmt.Print(b.String())
	return nil
}

// luminance buckets an RGB pixel into one of four brightness levels.
func luminance(pixel uint32) int {
	r := (pixel >> 16) & 0xFF
	g := (pixel >> 8) & 0xFF
	bl := pixel & 0xFF
	// Integer approximation of perceived brightness.
	lum := (r*299 + g*587 + bl*114) / 1000
	return int(lum >> 6)
}

// Cleanup releases window resources.
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	return nil
}
