package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/agentos-io/agentos/pkg/models"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// priorityTag renders a priority with its conventional color.
func priorityTag(priority string) string {
	switch models.Priority(priority) {
	case models.PriorityCritical:
		return color.New(color.FgRed, color.Bold).Sprint("CRITICAL")
	case models.PriorityHigh:
		return color.New(color.FgYellow).Sprint("HIGH    ")
	case models.PriorityLow:
		return color.New(color.FgHiBlack).Sprint("LOW     ")
	default:
		return "MEDIUM  "
	}
}

// statusTag renders a task status with its conventional color.
func statusTag(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return color.GreenString(string(status))
	case models.TaskStatusFailed, models.TaskStatusBlocked:
		return color.RedString(string(status))
	case models.TaskStatusActive:
		return color.CyanString(string(status))
	case models.TaskStatusPartial, models.TaskStatusMaxIterations:
		return color.YellowString(string(status))
	default:
		return string(status)
	}
}

// formatAge renders how long ago t was, coarsely.
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
