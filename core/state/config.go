package state

// Config holds the location of the local state file.
type Config struct {
	// File is the path of the processed state JSON document.
	File string `mapstructure:"file" default:"data/processed_state.json"`
}
