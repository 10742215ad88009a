package i18n

var en = map[string]string{
	// status line
	"resetting": "resetting",

	// detail report
	"detail_title":      "Claude token usage",
	"model":             "Model",
	"model_source":      "Source",
	"multiplier":        "Multiplier",
	"input_raw":         "Input tokens (raw)",
	"output_raw":        "Output tokens (raw)",
	"total_raw":         "Total used (raw)",
	"total_effective":   "Total used (effective)",
	"remaining":         "Remaining",
	"over_budget":       "Over budget by",
	"percent_used":      "Used",
	"percent_remaining": "Left",
	"window_start":      "Period start",
	"window_end":        "Next reset",
	"time_left":         "Time left",
	"manual_updates":    "Manual updates",
	"estimated_updates": "Estimated sessions",
	"requests_left":     "Requests left",
	"work_left":         "Work left",

	// model sources
	"source_forced":    "forced",
	"source_detected":  "detected",
	"source_heuristic": "guessed from usage",

	// tier advice
	"tier_sufficient": "Plenty of budget left, keep going.",
	"tier_moderate":   "Budget is fine, but larger tasks deserve a plan.",
	"tier_low":        "Budget is low. Prefer small, focused requests.",
	"tier_critical":   "Budget is nearly exhausted. Wrap up or wait for the reset.",

	// commands
	"added":            "Added - Input: %d, Output: %d",
	"estimated":        "Estimated - Input: %d, Output: %d",
	"total_usage":      "Total usage: %d",
	"reset_done":       "Token usage reset. Next reset at %s.",
	"model_current":    "Current model: %s (multiplier: %sx, %s)",
	"model_set":        "Model set to: %s",
	"model_cleared":    "Model override cleared.",
	"model_available":  "Available models: %s",
	"request_written":  "Update request %s written to %s",
	"monitor_started":  "Monitoring every %s. Press Ctrl+C to stop.",
	"monitor_stopped":  "Monitor stopped.",
	"monitor_running":  "Monitor already running (pid %d).",
	"monitor_signaled": "Sent stop signal to monitor (pid %d).",
	"add_needs_counts": "either --input/--output or --text-input/--text-output is required",

	// live view
	"watch_title": "tokenwatch",
	"watch_help":  "q quit",
	"updated_at":  "Updated %s",
}
