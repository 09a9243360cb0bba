package system

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ProbeDuration asks ffprobe for the duration of a media file in seconds.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe output %q: %w", strings.TrimSpace(string(out)), err)
	}

	return duration, nil
}

// ProcessStats is a resource snapshot of the running process.
type ProcessStats struct {
	RSS        uint64  // Bytes
	CPUPercent float64 // Since process start
}

// CurrentProcessStats reads memory and CPU usage of this process.
func CurrentProcessStats() (ProcessStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, fmt.Errorf("memory info: %w", err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, fmt.Errorf("cpu percent: %w", err)
	}

	return ProcessStats{RSS: mem.RSS, CPUPercent: cpu}, nil
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
