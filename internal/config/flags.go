package config

import "flag"

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagPush           = flag.Bool("push", false, "Write host edits back to the prim")
	flagNoReadAnimated = flag.Bool("no-read-animated", false, "Do not re-read animated ops on time changes")
	flagPrecision      = flag.String("precision", "", "Precision of inserted ops (double, float, half)")
	flagTime           = flag.String("time", "", "Evaluation time code")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPush {
		cfg.Engine.PushToPrim = true
	}
	if *flagNoReadAnimated {
		cfg.Engine.ReadAnimatedValues = false
	}
	if *flagPrecision != "" {
		cfg.Engine.InsertPrecision = *flagPrecision
	}
	if *flagTime != "" {
		cfg.Stage.Time = *flagTime
	}
}
