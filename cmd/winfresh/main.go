// Command winfresh periodically sends a keystroke combination (Ctrl+F5
// by default) to an operator-selected X11 window at random intervals,
// without requiring that window to stay focused.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"winfresh/internal/config"
	"winfresh/internal/dispatch"
	"winfresh/internal/focus"
	"winfresh/internal/inject"
	"winfresh/internal/interval"
	"winfresh/internal/keys"
	"winfresh/internal/logging"
	"winfresh/internal/platform"
	"winfresh/internal/selector"
	"winfresh/internal/x11"
)

const (
	logFileName = "debug.log"
	// flashPause gives the user a moment to see the attention flash on
	// the selected window before it is cleared again.
	flashPause = 1 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	logger, err := logging.Open(logFileName)
	if err != nil {
		fmt.Printf("CRITICAL: Failed to initialize logging: %v. Exiting.\n", err)
		return 1
	}
	defer logger.Close()

	logger.Infof("Program started. Mode: targeted window keystroke sender with config.")
	fmt.Println("Welcome! This program sends a keystroke combo to a window you select at random intervals.")

	opts := config.Load(config.FileName, logger)
	logger.SetLevel(logging.ParseLevel(opts.LogLevel))

	combo := resolveCombo(opts.ComboName, logger)

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Printf("Failed to connect to the display server: %v. Exiting.\n", err)
		logger.Errorf("Main: display connection failed: %v", err)
		return 1
	}
	defer conn.Close()
	backend := platform.NewX11Backend(conn)

	// Close the log cleanly on Ctrl+C / SIGTERM; there is nothing else
	// to unwind between cycles.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted. Shutting down.")
		logger.Infof("Program interrupted.")
		logger.Close()
		os.Exit(0)
	}()

	fmt.Println("")
	fmt.Println("--- Window Selection ---")
	fmt.Println("Please CLICK ANYWHERE on the window you want to target.")
	fmt.Println("Waiting for your click...")

	target, ok := selector.New(backend, logger).SelectByClick()
	if !ok {
		fmt.Println("No window was selected. Exiting program.")
		logger.Errorf("Main: no target window selected. Program will exit.")
		return 1
	}

	title := backend.Title(target)
	if title == "" {
		title = "No Title"
	}
	fmt.Printf("Window selected: %q (ID: %d)\n", title, target)
	fmt.Println("Target window acquired. Flashing for confirmation...")
	flashTarget(backend, target, logger)

	fmt.Printf("\nStarting random %s keystrokes to the selected window.\n", combo.Name)
	fmt.Printf("Delays will be between %.1fs and %.1fs.\n", opts.Bounds.Min, opts.Bounds.Max)
	fmt.Println("Press Ctrl+C in this console to stop the program.")
	logger.Infof("Main: entering main loop. Target: %d. MinDelay: %.2f, MaxDelay: %.2f.",
		target, opts.Bounds.Min, opts.Bounds.Max)

	d := &dispatch.Dispatcher{
		Backend:  backend,
		Arbiter:  focus.New(backend, logger),
		Injector: inject.New(backend, combo, logger),
		Source:   interval.NewSource(logger),
		Bounds:   opts.Bounds,
		Combo:    combo,
		Log:      logger,
		Console:  os.Stdout,
	}
	d.Run(target)

	fmt.Println("Program loop terminated.")
	logger.Infof("Program finished.")
	return 0
}

// resolveCombo picks the configured combo, falling back to the built-in
// one on any problem. Combo resolution failures are never fatal.
func resolveCombo(name string, logger *logging.Logger) keys.Combo {
	custom, err := keys.LoadFile(keys.ComboFileName)
	if err != nil {
		fmt.Printf("Warning: ignoring combo file: %v\n", err)
		logger.Warningf("Main: ignoring combo file: %v", err)
		custom = map[string]keys.Combo{}
	}
	combo, err := keys.Resolve(name, custom)
	if err != nil {
		fmt.Printf("Warning: %v. Using the built-in %s combo.\n", err, keys.DefaultName)
		logger.Warningf("Main: %v, falling back to the built-in combo.", err)
		return keys.Refresh()
	}
	return combo
}

// flashTarget marks the selected window as demanding attention for a
// moment so the user can confirm the right window was picked.
func flashTarget(backend platform.Backend, target platform.WindowID, logger *logging.Logger) {
	if err := backend.SetAttention(target, true); err != nil {
		logger.Warningf("Main: failed to flash window %d: %v", target, err)
		return
	}
	time.Sleep(flashPause)
	if err := backend.SetAttention(target, false); err != nil {
		logger.Warningf("Main: failed to clear attention on window %d: %v", target, err)
	}
	logger.Debugf("Main: flashed window %d.", target)
}
