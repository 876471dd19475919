package app

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"gogb/internal/bus"
	"gogb/internal/cartridge"
	"gogb/internal/graphics"
	"gogb/internal/input"
)

// Application wires the emulator core to a graphics backend and owns the
// main loop.
type Application struct {
	system *bus.System

	graphicsBackend graphics.Backend
	window          graphics.Window

	config   *Config
	emulator *Emulator

	running     bool
	paused      bool
	initialized bool
	headless    bool

	romPath   string
	cartridge *cartridge.Cartridge

	// Escape must be pressed twice within this window to quit.
	lastESCTime time.Time
}

// ApplicationError wraps component-specific failures with context.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication creates an application using the config at configPath.
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates an application, optionally forcing
// headless mode regardless of the configured backend.
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	app := &Application{
		config:   NewConfig(),
		headless: headless,
	}

	if configPath != "" {
		if err := app.config.LoadFromFile(configPath); err != nil {
			log.Printf("could not load config from %s, using defaults: %v", configPath, err)
		}
	}

	if err := app.initializeComponents(headless); err != nil {
		return nil, &ApplicationError{
			Component: "initialization",
			Operation: "component setup",
			Err:       err,
		}
	}

	return app, nil
}

// initializeComponents initializes all application components.
func (app *Application) initializeComponents(headless bool) error {
	app.system = bus.New()

	if err := app.initializeGraphicsBackend(headless); err != nil {
		return fmt.Errorf("failed to initialize graphics backend: %v", err)
	}

	app.emulator = NewEmulator(app.system, app.config)
	app.initialized = true
	return nil
}

// initializeGraphicsBackend creates and initializes the configured backend,
// falling back to headless when Ebitengine cannot start (no display).
func (app *Application) initializeGraphicsBackend(headless bool) error {
	backendType := graphics.BackendType(app.config.Video.Backend)
	if headless {
		backendType = graphics.BackendHeadless
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("failed to create graphics backend: %v", err)
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  "gogb",
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		Headless:     headless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendEbitengine {
			return fmt.Errorf("failed to initialize graphics backend: %v", err)
		}
		log.Printf("Ebitengine backend failed (%v), falling back to headless mode", err)
		app.graphicsBackend, err = graphics.CreateBackend(graphics.BackendHeadless)
		if err != nil {
			return fmt.Errorf("failed to create fallback headless backend: %v", err)
		}
		graphicsConfig.Headless = true
		if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
			return fmt.Errorf("failed to initialize fallback headless backend: %v", err)
		}
	}

	app.window, err = app.graphicsBackend.CreateWindow(
		graphicsConfig.WindowTitle,
		graphicsConfig.WindowWidth,
		graphicsConfig.WindowHeight,
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %v", err)
	}

	if hw, ok := app.window.(*graphics.HeadlessWindow); ok {
		hw.SetOutputPath(app.config.Paths.Logs)
		hw.SetDumpInterval(app.config.Debug.DumpFrames)
	}

	return nil
}

// LoadROM loads a ROM file into the emulator and starts it.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return &ApplicationError{
			Component: "cartridge",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.cartridge = cart
	app.romPath = romPath
	app.system.LoadCartridge(cart)

	if app.config.Emulation.SaveBatteryRAM {
		if err := app.loadBatteryRAM(); err != nil {
			log.Printf("could not load battery RAM: %v", err)
		}
	}

	if app.window != nil {
		title := fmt.Sprintf("gogb - %s", cart.Title())
		if cart.Title() == "" {
			title = fmt.Sprintf("gogb - %s", filepath.Base(romPath))
		}
		app.window.SetTitle(title)
	}

	app.paused = app.config.Emulation.PauseOnStart
	app.emulator.Start()
	return nil
}

// Run starts the main application loop and blocks until shutdown.
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.running = true
	defer app.shutdown()

	if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
		ebitengineWindow.SetEmulatorUpdateFunc(app.tick)
		err := ebitengineWindow.Run()
		if errors.Is(err, errStopped) {
			return nil
		}
		return err
	}

	// Non-Ebitengine backends drive the loop themselves at roughly 60Hz.
	for app.running {
		if err := app.tick(); err != nil {
			if errors.Is(err, errStopped) {
				return nil
			}
			return err
		}
		if app.window != nil && app.window.ShouldClose() {
			app.Stop()
		}
		time.Sleep(targetFrameTime)
	}
	return nil
}

// errStopped signals a clean user-requested shutdown out of the game loop.
var errStopped = errors.New("stopped")

// tick runs one iteration of the main loop: input, one emulated frame,
// then rendering.
func (app *Application) tick() error {
	if !app.running {
		return errStopped
	}

	app.processInput()
	if !app.running {
		return errStopped
	}

	if !app.paused && app.cartridge != nil {
		if err := app.emulator.Update(); err != nil {
			return err
		}
	}

	if app.window != nil {
		if err := app.window.RenderFrame(*app.emulator.FrameRGB()); err != nil {
			return fmt.Errorf("render error: %v", err)
		}
	}

	return nil
}

// processInput drains backend events and applies them.
func (app *Application) processInput() {
	if app.window == nil {
		return
	}

	for _, event := range app.window.PollEvents() {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.handleEscape()

		case graphics.InputEventTypeButton:
			if app.cartridge != nil {
				app.emulator.HandleButton(event.Button, event.Pressed)
			}

		case graphics.InputEventTypeKey:
			app.handleKeyInput(event)
		}
	}
}

// handleEscape requires a second press within 3 seconds to quit, so a
// stray Escape does not kill a session.
func (app *Application) handleEscape() {
	now := time.Now()
	if !app.lastESCTime.IsZero() && now.Sub(app.lastESCTime) < 3*time.Second {
		log.Println("shutting down")
		app.Stop()
		return
	}
	log.Println("press Escape again within 3 seconds to quit")
	app.lastESCTime = now
}

// handleKeyInput handles non-joypad keys: pause and reset.
func (app *Application) handleKeyInput(event graphics.InputEvent) {
	if !event.Pressed {
		return
	}

	switch event.Key {
	case graphics.KeyP:
		app.TogglePause()
	case graphics.KeyR:
		app.emulator.Reset()
	}
}

// graphicsButtonToInputButton converts graphics.Button to input.Button.
func graphicsButtonToInputButton(gButton graphics.Button) input.Button {
	switch gButton {
	case graphics.ButtonA:
		return input.ButtonA
	case graphics.ButtonB:
		return input.ButtonB
	case graphics.ButtonSelect:
		return input.ButtonSelect
	case graphics.ButtonStart:
		return input.ButtonStart
	case graphics.ButtonUp:
		return input.ButtonUp
	case graphics.ButtonDown:
		return input.ButtonDown
	case graphics.ButtonLeft:
		return input.ButtonLeft
	case graphics.ButtonRight:
		return input.ButtonRight
	default:
		return input.ButtonA
	}
}

// TogglePause toggles emulation pause.
func (app *Application) TogglePause() {
	app.paused = !app.paused
}

// IsPaused returns whether emulation is paused.
func (app *Application) IsPaused() bool {
	return app.paused
}

// Stop requests a shutdown of the main loop.
func (app *Application) Stop() {
	app.running = false
}

// Config exposes the active configuration.
func (app *Application) Config() *Config {
	return app.config
}

// Emulator exposes the emulator for debugging frontends.
func (app *Application) Emulator() *Emulator {
	return app.emulator
}

// System exposes the wired machine for debugging frontends.
func (app *Application) System() *bus.System {
	return app.system
}

// shutdown persists battery RAM and releases backend resources.
func (app *Application) shutdown() {
	if app.config.Emulation.SaveBatteryRAM && app.cartridge != nil {
		if err := app.saveBatteryRAM(); err != nil {
			log.Printf("could not save battery RAM: %v", err)
		}
	}

	app.emulator.Stop()
	if app.window != nil {
		app.window.Cleanup()
	}
	if app.graphicsBackend != nil {
		app.graphicsBackend.Cleanup()
	}
}
