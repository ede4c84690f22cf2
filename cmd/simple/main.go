package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/asynclog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[asynclog]
  directory = "./simple_logs"
  prefix = "simple"
  level = "debug"
  rotate_size_kb = 256
  max_rotated_files = 3
  product_name = "simple-example"
  product_version = "0.1.0"
  catch_signals = true
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Sink Example ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := asynclog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = asynclog.DefaultConfig()
	}

	// --- Initialize Sink ---
	sink, err := asynclog.NewSink(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create sink: %v\n", err)
		os.Exit(1)
	}
	if err := asynclog.Install(sink); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install sink: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Sink installed.")

	// --- SAVE CONFIGURATION ---
	// Writes the merged configuration (defaults + file values) back
	if err := asynclog.SaveConfig(configFile, sink.Config()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", configFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", configFile)
	}

	// --- Logging ---
	asynclog.Debug("This is a debug message.", "user_id", 123)
	asynclog.Info("Application starting...")
	asynclog.Warning("Potential issue detected.", "threshold", 0.95)
	asynclog.Critical("An error occurred!", "code", 500)

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			asynclog.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			asynclog.Logf(asynclog.LevelNormal, "Goroutine %d finished", id)
		}(i)
	}
	wg.Wait()
	fmt.Println("Goroutines finished.")

	path, err := sink.FileName().Get()
	if err == nil {
		fmt.Printf("Active log file: %s\n", path)
	}

	// --- Shutdown ---
	fmt.Println("Shutting down sink...")
	if asynclog.Shutdown() {
		fmt.Println("Sink shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in '%s' and the saved config '%s'.\n", cfg.Directory, configFile)
}
