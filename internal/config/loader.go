package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"winfresh/internal/interval"
	"winfresh/internal/logging"
)

// Load reads the options file at path. A missing file is replaced with a
// default one and the defaults are returned. Malformed lines, unknown
// keys, and out-of-range values are logged and skipped; the previous
// value for the affected key is retained. Load never fails: the worst
// case is running on defaults.
func Load(path string, log *logging.Logger) Options {
	opts := Default()

	f, err := os.Open(path)
	if err != nil {
		log.Infof("LoadConfig: %q not found. Using default delays (min %.1fs, max %.1fs).",
			path, opts.Bounds.Min, opts.Bounds.Max)
		if werr := writeDefaultFile(path); werr != nil {
			log.Warningf("LoadConfig: failed to create default %q: %v", path, werr)
		} else {
			log.Infof("LoadConfig: created default %q.", path)
		}
		return opts
	}
	defer f.Close()

	log.Infof("LoadConfig: reading configuration from %q.", path)

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warningf("LoadConfig: could not parse line %d: %q", lineNum, line)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "min_delay":
			opts.Bounds.Min = loadDelay(log, key, value, lineNum, opts.Bounds.Min)
		case "max_delay":
			opts.Bounds.Max = loadDelay(log, key, value, lineNum, opts.Bounds.Max)
		case "combo":
			if value == "" {
				log.Warningf("LoadConfig: empty value for combo on line %d.", lineNum)
				continue
			}
			opts.ComboName = value
			log.Debugf("LoadConfig: loaded combo = %q", value)
		case "log_level":
			if value == "" {
				log.Warningf("LoadConfig: empty value for log_level on line %d.", lineNum)
				continue
			}
			opts.LogLevel = value
			log.Debugf("LoadConfig: loaded log_level = %q", value)
		default:
			log.Warningf("LoadConfig: unknown key %q on line %d.", key, lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warningf("LoadConfig: error reading %q: %v", path, err)
	}

	if opts.Bounds.Min > opts.Bounds.Max {
		log.Warningf("LoadConfig: min_delay %.2f > max_delay %.2f. Swapping.",
			opts.Bounds.Min, opts.Bounds.Max)
		opts.Bounds.Min, opts.Bounds.Max = opts.Bounds.Max, opts.Bounds.Min
		opts.Swapped = true
	}
	return opts
}

// loadDelay parses and range-checks one delay key, keeping prev on any
// rejection.
func loadDelay(log *logging.Logger, key, value string, lineNum int, prev float64) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warningf("LoadConfig: invalid value for %s on line %d: %q. Using default or previous.",
			key, lineNum, value)
		return prev
	}
	if !interval.InRange(v) {
		log.Warningf("LoadConfig: value for %s on line %d out of range (0, %.0f): %q. Using default or previous.",
			key, lineNum, interval.BoundCeil, value)
		return prev
	}
	log.Debugf("LoadConfig: loaded %s = %.2f", key, v)
	return v
}

func writeDefaultFile(path string) error {
	var b strings.Builder
	b.WriteString("# Configuration for winfresh\n")
	b.WriteString("# Delays are in seconds (can be fractional, e.g. 2.5)\n")
	fmt.Fprintf(&b, "min_delay = %.1f\n", DefaultMinDelay)
	fmt.Fprintf(&b, "max_delay = %.1f\n", DefaultMaxDelay)
	return os.WriteFile(path, []byte(b.String()), 0644)
}
