package reconcile

// Config holds fuzzy matching settings.
type Config struct {
	// Threshold is the minimum similarity in [0,1] for a fuzzy match.
	Threshold float64 `mapstructure:"threshold" default:"0.85"`
}
