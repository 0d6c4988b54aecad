package tagging

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ProbeResult is the subset of ffprobe's container/stream report spec.md
// §4.1 requires: the container format name, the overall bitrate, and the
// duration in milliseconds.
type ProbeResult struct {
	Format     string
	Bitrate    int
	DurationMs int
}

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

// Probe shells out to ffprobe, grounded on the teacher's
// internal/scanner/ffprobe.go, narrowed to the audio-only fields spec.md
// §4.1 names.
func Probe(filePath string) (*ProbeResult, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var data ffprobeOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("parse ffprobe: %w", err)
	}

	result := &ProbeResult{Format: data.Format.FormatName}

	if data.Format.Duration != "" {
		if secs, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			result.DurationMs = int(secs * 1000)
		}
	}
	if data.Format.BitRate != "" {
		result.Bitrate, _ = strconv.Atoi(data.Format.BitRate)
	}

	return result, nil
}
