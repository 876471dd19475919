//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitengineBackend implements the Backend interface using Ebitengine.
type EbitengineBackend struct {
	initialized bool
	config      Config
	game        *EbitengineGame
}

// EbitengineWindow implements the Window interface for Ebitengine.
type EbitengineWindow struct {
	backend            *EbitengineBackend
	title              string
	width              int
	height             int
	game               *EbitengineGame
	running            bool
	events             []InputEvent
	emulatorUpdateFunc func() error
}

// EbitengineGame implements ebiten.Game for the emulator.
type EbitengineGame struct {
	window       *EbitengineWindow
	frameImage   *ebiten.Image
	windowWidth  int
	windowHeight int
	filterLinear bool

	// Reusable image buffer to avoid a per-frame allocation.
	imageBuffer *image.RGBA
}

// NewEbitengineBackend creates a new Ebitengine graphics backend.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend.
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("Ebitengine backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates an Ebitengine window.
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	game := &EbitengineGame{
		windowWidth:  width,
		windowHeight: height,
		filterLinear: b.config.Filter == "linear",
		frameImage:   ebiten.NewImage(Width, Height),
		imageBuffer:  image.NewRGBA(image.Rect(0, 0, Width, Height)),
	}

	window := &EbitengineWindow{
		backend: b,
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}

	game.window = window
	b.game = game

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)

	if b.config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return window, nil
}

// Cleanup releases all Ebitengine resources.
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true if running in headless mode.
func (b *EbitengineBackend) IsHeadless() bool {
	return b.config.Headless
}

// GetName returns the backend name.
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}

// SetTitle sets the window title.
func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// GetSize returns window dimensions.
func (w *EbitengineWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if the window should close.
func (w *EbitengineWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents processes input events and returns them.
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame renders one RGB frame to the window.
func (w *EbitengineWindow) RenderFrame(frameBuffer [Width * Height]uint32) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}

	img := w.game.imageBuffer
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			pixel := frameBuffer[y*Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(pixel >> 16),
				G: uint8(pixel >> 8),
				B: uint8(pixel),
				A: 255,
			})
		}
	}

	w.game.frameImage.WritePixels(img.Pix)
	return nil
}

// Cleanup releases window resources.
func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// Run starts the Ebitengine game loop and blocks until the window closes.
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	return ebiten.RunGame(w.game)
}

// SetEmulatorUpdateFunc sets the per-tick emulator update function.
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {
	w.emulatorUpdateFunc = updateFunc
}

// Update implements ebiten.Game.Update.
func (g *EbitengineGame) Update() error {
	if g.window == nil {
		return nil
	}

	g.processInput()

	if !g.window.running {
		return ebiten.Termination
	}

	if g.window.emulatorUpdateFunc != nil {
		if err := g.window.emulatorUpdateFunc(); err != nil {
			log.Printf("[Ebitengine] emulator update error: %v", err)
			return err
		}
	}

	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	op := &ebiten.DrawImageOptions{}
	if g.filterLinear {
		op.Filter = ebiten.FilterLinear
	}

	// Scale to fit the window while keeping aspect ratio.
	scaleX := float64(g.windowWidth) / float64(Width)
	scaleY := float64(g.windowHeight) / float64(Height)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX := (float64(g.windowWidth) - float64(Width)*scale) / 2
	offsetY := (float64(g.windowHeight) - float64(Height)*scale) / 2

	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)

	screen.DrawImage(g.frameImage, op)
}

// Layout implements ebiten.Game.Layout.
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// keyMappings translates Ebitengine keys to backend keys.
var keyMappings = map[ebiten.Key]Key{
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyEnter:      KeyEnter,
	ebiten.KeySpace:      KeySpace,
	ebiten.KeyBackspace:  KeyBackspace,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeyW:          KeyW,
	ebiten.KeyA:          KeyA,
	ebiten.KeyS:          KeyS,
	ebiten.KeyD:          KeyD,
	ebiten.KeyJ:          KeyJ,
	ebiten.KeyK:          KeyK,
	ebiten.KeyP:          KeyP,
	ebiten.KeyR:          KeyR,
	ebiten.KeyF1:         KeyF1,
	ebiten.KeyF2:         KeyF2,
	ebiten.KeyF3:         KeyF3,
	ebiten.KeyF4:         KeyF4,
}

// buttonMappings translates backend keys to Game Boy buttons. Arrow keys
// and WASD both drive the d-pad.
var buttonMappings = map[Key]Button{
	KeyUp:        ButtonUp,
	KeyDown:      ButtonDown,
	KeyLeft:      ButtonLeft,
	KeyRight:     ButtonRight,
	KeyW:         ButtonUp,
	KeyS:         ButtonDown,
	KeyA:         ButtonLeft,
	KeyD:         ButtonRight,
	KeyJ:         ButtonA,
	KeyK:         ButtonB,
	KeyEnter:     ButtonStart,
	KeyBackspace: ButtonSelect,
}

// processInput converts keyboard state changes into input events.
func (g *EbitengineGame) processInput() {
	if g.window == nil {
		return
	}

	var events []InputEvent

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		events = append(events, InputEvent{
			Type:    InputEventTypeQuit,
			Pressed: true,
		})
	}

	var rawKeyEvents []InputEvent
	for ebitenKey, key := range keyMappings {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			rawKeyEvents = append(rawKeyEvents, InputEvent{
				Type:    InputEventTypeKey,
				Key:     key,
				Pressed: true,
			})
		} else if inpututil.IsKeyJustReleased(ebitenKey) {
			rawKeyEvents = append(rawKeyEvents, InputEvent{
				Type:    InputEventTypeKey,
				Key:     key,
				Pressed: false,
			})
		}
	}

	for _, event := range rawKeyEvents {
		if button, exists := buttonMappings[event.Key]; exists {
			events = append(events, InputEvent{
				Type:    InputEventTypeButton,
				Button:  button,
				Pressed: event.Pressed,
			})
		} else {
			events = append(events, event)
		}
	}

	g.window.events = append(g.window.events, events...)
}
