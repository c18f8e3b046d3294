package video

// Package video opens downloaded files for indexed frame access. The ffmpeg
// backed implementation probes metadata with ffprobe and decodes every
// requested frame in its own ffmpeg process, so reads never share decoder state.
