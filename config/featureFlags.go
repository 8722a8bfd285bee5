package config

import (
	"os"
	"strings"
)

// SgkReminderEnabled gates the daily SGK upload reminder cron.
// Disable on replicas that must not own the scheduler.
//
// Set via env:
// - SGK_REMINDER_ENABLED=false
func SgkReminderEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SGK_REMINDER_ENABLED")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SchedulerTimezone is the location the reminder cron anchors to.
//
// Set via env:
// - SCHEDULER_TIMEZONE=Europe/Istanbul
func SchedulerTimezone() string {
	tz := strings.TrimSpace(os.Getenv("SCHEDULER_TIMEZONE"))
	if tz == "" {
		return "Europe/Istanbul"
	}
	return tz
}
