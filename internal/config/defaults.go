package config

// Default configuration values.
const (
	DefaultPattern     = "./*.puppet.js"
	DefaultResults     = "./results.json"
	DefaultAttempts    = 3
	DefaultInterpreter = "node"
)

// DefaultMap returns the default configuration as a raw record.
// A fresh map is returned on every call so callers may merge onto it freely.
func DefaultMap() map[string]any {
	return map[string]any{
		"path": map[string]any{
			"pattern": []any{DefaultPattern},
			"results": DefaultResults,
		},
		"attempts":    DefaultAttempts,
		"interpreter": DefaultInterpreter,
		"additionalParams": map[string]any{
			"checkPerformance":   true,
			"silent":             false,
			"writeResultsToFile": true,
			"continueOnFailure":  false,
			"callback":           nil,
			"fastGlobParams": map[string]any{
				"dot":             true,
				"onlyFiles":       true,
				"caseInsensitive": false,
				"followSymlinks":  true,
				"ignore":          []any{},
			},
		},
	}
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Path: PathConfig{
			Pattern: Patterns{DefaultPattern},
			Results: DefaultResults,
		},
		Attempts:    DefaultAttempts,
		Interpreter: DefaultInterpreter,
		AdditionalParams: AdditionalParams{
			CheckPerformance:   true,
			WriteResultsToFile: true,
			FastGlobParams: GlobParams{
				Dot:            true,
				OnlyFiles:      true,
				FollowSymlinks: true,
			},
		},
	}
}
