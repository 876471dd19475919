package app

import (
	"fmt"
	"time"

	"gogb/internal/bus"
	"gogb/internal/debug"
	"gogb/internal/graphics"
)

// One frame of 70224 cycles at 4194304 Hz is about 16.74ms.
const targetFrameTime = time.Second * bus.CyclesPerFrame / 4194304

// Emulator manages the emulation loop and timing around a System.
type Emulator struct {
	system *bus.System
	config *Config
	video  *graphics.VideoProcessor

	// Timing metrics
	emulationTime    time.Duration
	actualFrameTime  time.Duration
	averageFrameTime time.Duration
	lastResetTime    time.Time

	isRunning bool
}

// NewEmulator creates a new emulator instance around a wired system.
func NewEmulator(system *bus.System, config *Config) *Emulator {
	e := &Emulator{
		system:        system,
		config:        config,
		video:         graphics.NewVideoProcessor(config.Video.Palette),
		lastResetTime: time.Now(),
	}
	e.video.SetBrightness(config.Video.Brightness)

	if config.Debug.CPUTracing {
		system.SetTracer(debug.NewTracer(config.Debug.TraceDepth))
	}

	return e
}

// Reset resets the machine and the emulator's timing state.
func (e *Emulator) Reset() {
	e.system.Reset()
	e.emulationTime = 0
	e.actualFrameTime = 0
	e.averageFrameTime = 0
	e.lastResetTime = time.Now()
}

// Start starts the emulator.
func (e *Emulator) Start() {
	e.isRunning = true
}

// Stop stops the emulator.
func (e *Emulator) Stop() {
	e.isRunning = false
}

// IsRunning returns whether the emulator is running.
func (e *Emulator) IsRunning() bool {
	return e.isRunning
}

// Update runs exactly one frame of emulation. Called at 60Hz by the
// backend's game loop, this keeps emulation at real-time speed.
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}

	frameStart := time.Now()
	if _, err := e.system.RunFrame(); err != nil {
		return fmt.Errorf("frame execution error: %w", err)
	}
	e.emulationTime = time.Since(frameStart)

	e.actualFrameTime = e.emulationTime
	if e.averageFrameTime == 0 {
		e.averageFrameTime = e.actualFrameTime
	} else {
		e.averageFrameTime = time.Duration(
			float64(e.averageFrameTime)*0.95 + float64(e.actualFrameTime)*0.05,
		)
	}

	return nil
}

// StepInstruction executes one scheduler tick, for debugger use.
func (e *Emulator) StepInstruction() error {
	_, err := e.system.Step()
	return err
}

// FrameRGB converts the last completed frame to RGB for rendering.
func (e *Emulator) FrameRGB() *[graphics.Width * graphics.Height]uint32 {
	frame := e.system.FrameBuffer()
	return e.video.Process(frame)
}

// HandleButton forwards a button state change to the joypad.
func (e *Emulator) HandleButton(button graphics.Button, pressed bool) {
	e.system.Joypad.SetButton(graphicsButtonToInputButton(button), pressed)
}

// FrameCount returns the number of frames emulated since reset.
func (e *Emulator) FrameCount() uint64 {
	return e.system.FrameCount()
}

// CycleCount returns the cycles emulated since reset.
func (e *Emulator) CycleCount() uint64 {
	return e.system.TotalCycles()
}

// CPUState returns the current CPU state for debugging.
func (e *Emulator) CPUState() debug.CPUState {
	return e.system.CPUState()
}

// EmulationTime returns the host time spent emulating the last frame.
func (e *Emulator) EmulationTime() time.Duration {
	return e.emulationTime
}

// AverageFrameTime returns the smoothed per-frame host time.
func (e *Emulator) AverageFrameTime() time.Duration {
	return e.averageFrameTime
}

// EmulationSpeed returns the emulation speed as a percentage of real-time.
func (e *Emulator) EmulationSpeed() float64 {
	if e.actualFrameTime == 0 {
		return 0.0
	}
	return float64(targetFrameTime) / float64(e.actualFrameTime) * 100.0
}

// Uptime returns the emulator uptime since the last reset.
func (e *Emulator) Uptime() time.Duration {
	return time.Since(e.lastResetTime)
}
