package models

import "time"

// Settings represents the user's console preferences
type Settings struct {
	Output  OutputSettings `yaml:"output"`
	UI      UISettings     `yaml:"ui"`
	Notices NoticeSettings `yaml:"notices"`
}

// OutputSettings controls CLI output
type OutputSettings struct {
	Format   string `yaml:"format"` // "text", "json" or "yaml"
	ShowIDs  bool   `yaml:"show_ids"`
	Currency string `yaml:"currency"`
}

// UISettings controls TUI preferences
type UISettings struct {
	StartScreen    string `yaml:"start_screen"` // "dashboard" or a resource name
	ConfirmDeletes bool   `yaml:"confirm_deletes"`
	ShowSummary    bool   `yaml:"show_summary"`
}

// NoticeSettings controls how long transient messages stay on screen
type NoticeSettings struct {
	ClearAfter    time.Duration `yaml:"clear_after"`
	RedirectAfter time.Duration `yaml:"redirect_after"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Output: OutputSettings{
			Format:   "text",
			ShowIDs:  true,
			Currency: "₹",
		},
		UI: UISettings{
			StartScreen:    "dashboard",
			ConfirmDeletes: true,
			ShowSummary:    true,
		},
		Notices: NoticeSettings{
			ClearAfter:    3 * time.Second,
			RedirectAfter: 2 * time.Second,
		},
	}
}
