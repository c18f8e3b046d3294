package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconVideo    = "📺"
	IconFrames   = "🖼"
	IconWorking  = "⏳"
	IconSuccess  = "✅"
	IconError    = "❌"
)

// Layout sizing
const (
	CountEntryWidth   float32 = 80
	SettingsDialogW   float32 = 480
	SettingsDialogH   float32 = 360
	ProgressMinHeight float32 = 20
)
