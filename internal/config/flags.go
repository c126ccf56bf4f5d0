package config

// Flags carries command-line overrides. Zero values leave the loaded
// setting untouched.
type Flags struct {
	ConfigPath     string
	Debug          bool
	Mode           string
	Workers        int
	Format         string
	Out            string
	LogFile        string
	MergeTolerance float64
}

// apply applies CLI flag overrides to the config.
func (f Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Mode != "" {
		cfg.Shading.Mode = f.Mode
	}
	if f.Workers > 0 {
		cfg.Pipeline.Workers = f.Workers
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Out != "" {
		cfg.Output.Path = f.Out
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.MergeTolerance > 0 {
		cfg.Input.MergeTolerance = f.MergeTolerance
	}
}
