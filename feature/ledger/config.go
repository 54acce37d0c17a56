package ledger

// Config holds settings for the spreadsheet ledger.
type Config struct {
	// ID is the spreadsheet identifier.
	ID string `mapstructure:"id" default:""`
	// Range is the A1 range holding the header row and the data rows.
	Range string `mapstructure:"range" default:"Sheet1!A:H"`
	// Credentials is the service account key file.
	Credentials string `mapstructure:"credentials" default:"./credentials/service_account.json"`
	// TitleColumn is the 0-based column holding song titles.
	TitleColumn int `mapstructure:"title_column" default:"3"`
	// CommentsColumn is the 0-based column receiving comment text.
	CommentsColumn int `mapstructure:"comments_column" default:"6"`
	// LastUpdateColumn is the 0-based column receiving the update timestamp.
	LastUpdateColumn int `mapstructure:"last_update_column" default:"7"`
	// CommentLog is the name of the audit sheet.
	CommentLog string `mapstructure:"comment_log" default:"Comment Log"`
	// TimeoutSeconds bounds each Sheets API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
