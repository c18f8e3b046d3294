package video

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errNoVideoStream = errors.New("no video stream")

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
	Duration   string `json:"duration"`
}

// ParseProbeOutput converts ffprobe JSON into Info. The frame count comes from
// nb_frames when the container reports it, otherwise from duration times rate.
func ParseProbeOutput(data []byte) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return Info{}, errNoVideoStream
	}

	st := out.Streams[0]
	info := Info{
		Width:  st.Width,
		Height: st.Height,
		FPS:    parseRate(st.RFrameRate),
	}

	info.Duration = parseFloat(st.Duration)
	if info.Duration <= 0 {
		info.Duration = parseFloat(out.Format.Duration)
	}

	if n, err := strconv.Atoi(strings.TrimSpace(st.NbFrames)); err == nil && n > 0 {
		info.FrameCount = n
	} else if info.Duration > 0 && info.FPS > 0 {
		info.FrameCount = int(math.Round(info.Duration * info.FPS))
	}

	return info, nil
}

// parseRate parses "num/den" or a plain number
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
