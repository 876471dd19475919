package graphics

import (
	"fmt"
	"os"
	"path/filepath"
)

// HeadlessBackend implements the Backend interface for headless operation.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	outputPath string
	dumpEvery  int
}

// NewHeadlessBackend creates a new headless graphics backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend.
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a headless "window" (no actual window).
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	return &HeadlessWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
	}, nil
}

// Cleanup releases all headless resources.
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend).
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name.
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// SetTitle sets the window title (kept for logging only).
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// GetSize returns window dimensions.
func (w *HeadlessWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if the window should close.
func (w *HeadlessWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns no events; headless mode has no input.
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame counts the frame and, when periodic dumps are enabled, saves
// it to disk.
func (w *HeadlessWindow) RenderFrame(frameBuffer [Width * Height]uint32) error {
	w.frameCount++

	if w.dumpEvery > 0 && w.frameCount%w.dumpEvery == 0 {
		filename := fmt.Sprintf("frame_%05d.ppm", w.frameCount)
		if w.outputPath != "" {
			filename = filepath.Join(w.outputPath, filename)
		}
		return w.saveFrameAsPPM(frameBuffer, filename)
	}

	return nil
}

// saveFrameAsPPM saves the frame buffer as a PPM image file.
func (w *HeadlessWindow) saveFrameAsPPM(frameBuffer [Width * Height]uint32, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", filename, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n%d %d\n255\n", Width, Height)

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			pixel := frameBuffer[y*Width+x]
			r := (pixel >> 16) & 0xFF
			g := (pixel >> 8) & 0xFF
			b := pixel & 0xFF
			fmt.Fprintf(file, "%d %d %d ", r, g, b)
		}
		fmt.Fprintf(file, "\n")
	}

	return nil
}

// Cleanup releases window resources.
func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetOutputPath sets the directory for frame dumps.
func (w *HeadlessWindow) SetOutputPath(path string) {
	w.outputPath = path
}

// SetDumpInterval enables saving every n-th frame to disk. Zero disables
// dumps.
func (w *HeadlessWindow) SetDumpInterval(n int) {
	w.dumpEvery = n
}

// GetFrameCount returns the number of frames rendered so far.
func (w *HeadlessWindow) GetFrameCount() int {
	return w.frameCount
}
