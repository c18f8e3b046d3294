package ui

// Package ui contains the Fyne-based desktop form for the frame extractor.
// It collects the video URL and frame count, runs the extraction pipeline in
// the background and reflects its events in a status line and progress bar.
// Widgets are only touched on the Fyne goroutine, via fyne.Do for pipeline
// events. All UI strings are localized via Localization.
