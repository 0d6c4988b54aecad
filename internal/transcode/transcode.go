// Package transcode realizes the decode→resample→encode pipeline of
// spec.md §4.5. No native Go libavcodec/libswresample binding exists
// anywhere in the example corpus, so the five internal stages spec.md
// §4.5 describes are realized as a single pinned ffmpeg subprocess
// invocation instead: grounded on the teacher's
// internal/stream/transcoder.go (exec.Command argument building,
// stderr capture into a bounded buffer, background goroutine awaiting
// completion) and internal/player/transcode.go (session bookkeeping
// under a mutex, context-based cancellation), narrowed from HLS/
// multi-quality video output to a single MP3 stdout stream.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"surfmt/internal/apperr"
	"surfmt/internal/cache"
	"surfmt/internal/logging"
)

// qualityScale is the encoder quantizer-scale constant spec.md §4.5
// names ("encoder global quality = quality × Q"): libmp3lame's -q:a
// option already runs 0..9 with that exact meaning, so Q = 1.
const qualityScale = 1

// MinQuality and MaxQuality bound the accepted transcode quality,
// per spec.md §4.5 ("Quality is an integer 0..9 ... Out-of-range
// values fail with BadRequest before entry").
const (
	MinQuality = 0
	MaxQuality = 9
)

// ValidateQuality enforces spec.md §4.5's quality range before a
// transcode is entered.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return apperr.BadInput(fmt.Sprintf("quality %d out of range [0,9]", q), nil)
	}
	return nil
}

// SinkWriter is the dual-sink destination a transcode writes its
// encoded MP3 bytes to: an HTTP chunk-encoded client writer. Temp-file
// persistence (the second sink) is handled internally by Run via
// io.MultiWriter, per spec.md §4.5's "custom output sink" fanning out
// to socket and temp file.
type SinkWriter interface {
	io.Writer
}

// Run transcodes srcPath to MP3 at the given quality, writing the
// output to client (already primed with response headers and chunk
// framing by the caller) while simultaneously persisting to a temp
// file. On success the temp file is copied into cache's on-disk slot
// for (trackID, quality), promoting it to MRU; the temp file is always
// removed afterward. Returns any error encountered mid-pipeline or while
// copying the temp file into the cache.
//
// Per spec.md §9's cancellation note, a write failure to client is
// treated as a recoverable sink error: the pipeline stops, the partial
// temp file is discarded, and the cache is not populated with a
// truncated file — the stricter of the two behaviors the design notes
// call acceptable.
func Run(ctx context.Context, client SinkWriter, trackCache *cache.Cache, trackID string, srcPath string, quality int) error {
	if err := ValidateQuality(quality); err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "surfmt-transcode-*.mp3")
	if err != nil {
		return apperr.IOError("create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	defer tmp.Close()

	sink := io.MultiWriter(client, tmp)

	args := []string{
		"-nostdin", "-v", "error",
		"-i", srcPath,
		"-vn",
		"-map", "0:a:0",
		"-ar", "44100",
		"-ac", "2",
		"-sample_fmt", "s16p",
		"-f", "mp3",
		"-q:a", strconv.Itoa(quality * qualityScale),
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = sink
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			// err came from the stdout-copy goroutine (the dual-sink
			// write), not from ffmpeg's own exit: a broken client pipe,
			// per spec.md §9, is recoverable here by aborting the
			// pipeline and discarding the temp file rather than
			// promoting a truncated one into the cache.
			return apperr.IOError("write transcode output", err)
		}
		msg := stderrBuf.String()
		if len(msg) > 1000 {
			msg = msg[len(msg)-1000:]
		}
		return apperr.TranscodeError("ffmpeg", fmt.Errorf("%v: %s", err, msg))
	}

	if err := tmp.Sync(); err != nil {
		logging.Warnf("transcode: sync temp file: %v", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return apperr.IOError("rewind temp file", err)
	}

	cachePath, _ := trackCache.GetCachedTranscode(trackID, quality)
	out, err := os.Create(cachePath)
	if err != nil {
		return apperr.IOError("create cache file", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, tmp); err != nil {
		return apperr.IOError("promote temp file to cache", err)
	}
	return nil
}
