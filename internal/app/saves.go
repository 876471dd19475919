package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// batterySavePath derives the .sav file path for the loaded ROM inside the
// configured save directory.
func (app *Application) batterySavePath() string {
	base := filepath.Base(app.romPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(app.config.Paths.SaveData, base+".sav")
}

// loadBatteryRAM restores cartridge RAM from disk for battery-backed
// cartridges. A missing save file is not an error.
func (app *Application) loadBatteryRAM() error {
	if app.cartridge == nil || !app.cartridge.HasBattery() {
		return nil
	}

	ram := app.cartridge.RAM()
	if len(ram) == 0 {
		return nil
	}

	path := app.batterySavePath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read save file %s: %v", path, err)
	}

	if len(data) != len(ram) {
		return fmt.Errorf("save file %s has %d bytes, cartridge has %d bytes of RAM",
			path, len(data), len(ram))
	}

	copy(ram, data)
	return nil
}

// saveBatteryRAM writes cartridge RAM to disk for battery-backed
// cartridges.
func (app *Application) saveBatteryRAM() error {
	if app.cartridge == nil || !app.cartridge.HasBattery() {
		return nil
	}

	ram := app.cartridge.RAM()
	if len(ram) == 0 {
		return nil
	}

	path := app.batterySavePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %v", err)
	}

	if err := os.WriteFile(path, ram, 0644); err != nil {
		return fmt.Errorf("failed to write save file %s: %v", path, err)
	}

	return nil
}
