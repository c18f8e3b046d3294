package model

// Package model defines domain data structures used across the app: the
// extraction run task, its pipeline states and per-frame results. Structures
// are designed for direct binding in the UI and explicit state transitions.
