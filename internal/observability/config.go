package observability

// Config captures the observability settings wired into the server.
type Config struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `yaml:"level"`
	// Encoding selects the zap encoder: json or console.
	Encoding string `yaml:"encoding"`
	// EnablePprofTrace mounts the pprof handlers on the diagnostics mux.
	EnablePprofTrace bool `yaml:"enablePprofTrace"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "json"}
}
