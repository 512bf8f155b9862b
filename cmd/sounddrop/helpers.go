package main

import "fmt"

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	index := -1
	for value >= unit && index < len(suffixes)-1 {
		value /= unit
		index++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[index])
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
