package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/httpkit/internal/logger"
)

// Summary aggregates the outcome of a URL sequence.
type Summary struct {
	// Requested is the number of URLs given.
	Requested int
	// Succeeded is the number of completed exchanges.
	Succeeded int
	// Failed is 1 when the sequence stopped on an error.
	Failed int
	// Skipped is the number of URLs never attempted because an earlier one failed.
	Skipped int
	// Saved is the number of bodies written to disk.
	Saved int
	// TotalBytes is the number of body bytes received.
	TotalBytes uint64
	// Duration is the wall time of the sequence.
	Duration time.Duration
	// Err is the failure that stopped the sequence.
	Err error
}

func newSummary(requested int, results []DownloadResult, err error, duration time.Duration) *Summary {
	s := &Summary{
		Requested: requested,
		Succeeded: len(results),
		Duration:  duration,
		Err:       err,
	}

	for _, result := range results {
		if result.Bytes > 0 {
			s.TotalBytes += uint64(result.Bytes)
		}

		if result.Path != "" {
			s.Saved++
		}
	}

	if err != nil {
		s.Failed = 1
	}

	s.Skipped = max(requested-s.Succeeded-s.Failed, 0)

	return s
}

// Print writes the summary through the global logger.
func (s *Summary) Print(ctx context.Context) {
	if s.Requested == 0 {
		return
	}

	header := "                     REQUEST SUMMARY"
	if ctx.Err() != nil {
		header = "             REQUEST SUMMARY (Interrupted)"
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Info(ctx, header)
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Infof(ctx, "Requests:         %d total", s.Requested)
	logger.Infof(ctx, "  Succeeded:      %d", s.Succeeded)

	if s.Failed > 0 {
		logger.Infof(ctx, "  Failed:         %d", s.Failed)
	}

	if s.Skipped > 0 {
		logger.Infof(ctx, "  Skipped:        %d", s.Skipped)
	}

	if s.Saved > 0 {
		logger.Infof(ctx, "  Saved:          %d", s.Saved)
	}

	logger.Infof(ctx, "Data Received:    %s", humanize.Bytes(s.TotalBytes))
	logger.Infof(ctx, "Duration:         %s", formatDuration(s.Duration))

	if s.Duration >= time.Second && s.TotalBytes > 0 {
		perSecond := uint64(float64(s.TotalBytes) / s.Duration.Seconds())
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(perSecond))
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}
