package download

// Package download resolves video titles and fetches videos by shelling out
// to yt-dlp. Fetches are idempotent: a video already on disk under its
// sanitized title is returned without invoking the downloader.
