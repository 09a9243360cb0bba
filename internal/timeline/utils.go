package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateScenarioPath creates a timestamped scenario filename in dir
func GenerateScenarioPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}

// FindLatestScenario finds the most recent scenario file in dir
func FindLatestScenario(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var scenarios []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && (strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			scenarios = append(scenarios, filepath.Join(dir, name))
		}
	}

	if len(scenarios) == 0 {
		return "", fmt.Errorf("no scenario files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(scenarios, func(i, j int) bool {
		infoI, _ := os.Stat(scenarios[i])
		infoJ, _ := os.Stat(scenarios[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return scenarios[0], nil
}
