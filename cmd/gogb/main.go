// Package main implements the gogb Game Boy emulator executable.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gogb/internal/app"
	"gogb/internal/bus"
	"gogb/internal/debug"
	"gogb/internal/graphics"
	"gogb/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "Path to Game Boy ROM file (optional for GUI mode)")
		configFile  = flag.String("config", "", "Path to configuration file")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging and CPU tracing")
		nogui       = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		frames      = flag.Int("frames", 600, "Frames to run in headless mode")
		help        = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *showVersion {
		version.PrintBuildInfo()
		os.Exit(0)
	}

	setupGracefulShutdown()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if *debugFlag {
		config := application.Config()
		config.Debug.EnableLogging = true
		config.Debug.CPUTracing = true
		application.System().SetTracer(debug.NewTracer(config.Debug.TraceDepth))
		log.Println("debug mode enabled")
	}

	if *romFile != "" {
		if err := application.LoadROM(*romFile); err != nil {
			log.Fatalf("Failed to load ROM: %v", err)
		}
	}

	if *nogui {
		if *romFile == "" {
			log.Fatal("ROM file required for headless mode")
		}
		runHeadlessMode(application, *frames)
		return
	}

	if err := application.Run(); err != nil {
		var fatal *bus.FatalError
		if errors.As(err, &fatal) {
			log.Fatalf("%v", fatal)
		}
		log.Fatalf("Application run failed: %v", err)
	}

	emu := application.Emulator()
	fmt.Printf("Session statistics:\n")
	fmt.Printf("  Frames emulated: %d\n", emu.FrameCount())
	fmt.Printf("  Session time:    %v\n", emu.Uptime())
	fmt.Printf("  Average speed:   %.1f%%\n", emu.EmulationSpeed())
}

// runHeadlessMode emulates a fixed number of frames without a window and
// dumps the final frame as ASCII art.
func runHeadlessMode(application *app.Application, frames int) {
	system := application.System()

	fmt.Printf("Running %d frames headless...\n", frames)
	for frame := 0; frame < frames; frame++ {
		if _, err := system.RunFrame(); err != nil {
			log.Fatalf("Emulation stopped at frame %d: %v", frame, err)
		}
	}

	frameBuffer := system.FrameBuffer()
	fmt.Println(debug.DumpFrame(frameBuffer[:], graphics.Width, graphics.Height))
	fmt.Println(debug.FrameStats(frameBuffer[:]))
	fmt.Printf("Done: %d frames, %d cycles\n", system.FrameCount(), system.TotalCycles())
}

// setupGracefulShutdown installs signal handling for a clean exit.
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nInterrupt received, shutting down")
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("gogb - Game Boy emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gogb [options]                    # Start GUI mode without ROM")
	fmt.Println("  gogb -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  gogb -nogui -rom <file> [options] # Run headless")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS:")
	fmt.Println("  Arrow Keys / WASD - D-Pad")
	fmt.Println("  J                 - A Button")
	fmt.Println("  K                 - B Button")
	fmt.Println("  Enter             - Start")
	fmt.Println("  Backspace         - Select")
	fmt.Println("  P                 - Pause")
	fmt.Println("  R                 - Reset")
	fmt.Println("  Escape (2x)       - Quit (double-tap within 3 seconds)")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("  Config file: ./config/gogb.json")
	fmt.Println("  ROMs:        ./roms/")
	fmt.Println("  Saves:       ./saves/")
	fmt.Println()
	fmt.Println("SUPPORTED CARTRIDGES:")
	fmt.Println("  - ROM only (with optional RAM)")
	fmt.Println("  - MBC1 (ROM/RAM banking, battery saves)")
}
