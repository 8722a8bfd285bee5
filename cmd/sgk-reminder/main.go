// sgk-reminder runs the reminder flow once and exits. Meant for a scheduled
// job (e.g. Cloud Scheduler or crontab) when the in-process scheduler of the
// API server is disabled.
//
// With -force the 26th-of-month guard is skipped; useful for testing mail
// delivery against a dev SMTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/workflow"
)

func main() {
	force := flag.Bool("force", false, "Run even when today is not the 26th")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	logger := config.GetLogger()
	deps := workflow.DefaultReminderDeps()
	if *force {
		// Pin Now to the 26th of the current month so the day guard passes.
		loc := deps.Location
		deps.Now = func() time.Time {
			now := time.Now().In(loc)
			return time.Date(now.Year(), now.Month(), 26, now.Hour(), now.Minute(), 0, 0, loc)
		}
	}

	if err := workflow.RunSgkReminder(context.Background(), logger, deps); err != nil {
		fmt.Fprintf(os.Stderr, "reminder run finished with errors: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Reminder run complete")
}
