package comments

// Config holds settings for the Gmail notification source.
type Config struct {
	// UserEmail is the mailbox whose notifications are read.
	UserEmail string `mapstructure:"user_email" default:""`
	// OAuthCredentials is the OAuth client secrets file.
	OAuthCredentials string `mapstructure:"oauth_credentials" default:"./credentials/oauth_credentials.json"`
	// TokenPath is the stored OAuth token file.
	TokenPath string `mapstructure:"token_path" default:"./credentials/gmail_token.json"`
	// Query is the Gmail search expression selecting pending notifications.
	Query string `mapstructure:"query" default:"is:unread"`
	// SubjectFilter must appear in the subject (case-insensitive).
	SubjectFilter string `mapstructure:"subject_filter" default:"commented"`
	// MaxResults caps the number of messages listed per poll.
	MaxResults int64 `mapstructure:"max_results" default:"50"`
	// TimeoutSeconds bounds each Gmail API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
