package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/models"
	"github.com/limansoft/liman_backend/utils"
	"github.com/sirupsen/logrus"
)

// ReminderDeps are the injectable collaborators of the daily reminder job.
type ReminderDeps struct {
	Now              func() time.Time
	Location         *time.Location
	ListActiveFirms  func(ctx context.Context) ([]models.Firm, error)
	HasOkPeriodCheck func(ctx context.Context, firmId int, periodCode string) (bool, error)
	ListPortalUsers  func(ctx context.Context, firmId int) ([]models.PortalUser, error)
	Mail             utils.MailSender
}

func DefaultReminderDeps() ReminderDeps {
	loc, err := time.LoadLocation(config.SchedulerTimezone())
	if err != nil {
		loc = time.Local
	}
	return ReminderDeps{
		Now:             time.Now,
		Location:        loc,
		ListActiveFirms: models.ListActiveFirms,
		HasOkPeriodCheck: func(ctx context.Context, firmId int, periodCode string) (bool, error) {
			return models.HasOkPeriodCheck(ctx, config.GetDB(), firmId, periodCode)
		},
		ListPortalUsers: models.ListPortalUsersByFirm,
		Mail:            utils.NewSmtpMailSender(),
	}
}

// expectedReminderPeriod is the month preceding now's calendar month,
// returned as ("YYYYMM", "YYYY-MM").
func expectedReminderPeriod(now time.Time) (string, string) {
	year, month := now.Year(), int(now.Month())
	month--
	if month == 0 {
		month = 12
		year--
	}
	return fmt.Sprintf("%04d%02d", year, month), fmt.Sprintf("%04d-%02d", year, month)
}

// RunSgkReminder mails every active firm that has not yet uploaded an OK
// listing for the expected period. It runs only on the 26th; a bad firm or a
// failed send never blocks the rest of the run.
func RunSgkReminder(ctx context.Context, logger *logrus.Logger, deps ReminderDeps) error {
	now := deps.Now().In(deps.Location)
	if now.Day() != 26 {
		return nil
	}

	periodCode, displayPeriod := expectedReminderPeriod(now)

	firms, err := deps.ListActiveFirms(ctx)
	if err != nil {
		config.LogError(logger, "sgkReminderWorkflow.go", "RunSgkReminder", "ListActiveFirms", nil, err)
		return err
	}

	var errs []error
	for _, firm := range firms {
		if err := remindFirm(ctx, logger, deps, firm, periodCode, displayPeriod); err != nil {
			config.LogError(logger, "sgkReminderWorkflow.go", "RunSgkReminder", "remindFirm", firm.FirmCode, err)
			errs = append(errs, fmt.Errorf("firm %s: %w", firm.FirmCode, err))
		}
	}
	return errors.Join(errs...)
}

func remindFirm(ctx context.Context, logger *logrus.Logger, deps ReminderDeps, firm models.Firm, periodCode string, displayPeriod string) error {
	ok, err := deps.HasOkPeriodCheck(ctx, firm.ID, periodCode)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	users, err := deps.ListPortalUsers(ctx, firm.ID)
	if err != nil {
		return err
	}
	recipients := models.ReminderRecipients(users)
	if len(recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("SGK hizmet listesi hatırlatması - %s dönemi", displayPeriod)
	text := fmt.Sprintf(
		"Sayın %s,\n\n%s dönemine ait SGK hizmet listesi henüz yüklenmedi. "+
			"Lütfen liman portalına giriş yaparak listeyi yükleyin.\n",
		firm.Name, displayPeriod)
	html := fmt.Sprintf(
		"<p>Sayın %s,</p><p><strong>%s</strong> dönemine ait SGK hizmet listesi henüz yüklenmedi. "+
			"Lütfen liman portalına giriş yaparak listeyi yükleyin.</p>",
		firm.Name, displayPeriod)

	if err := deps.Mail.Send(recipients, subject, html, text); err != nil {
		// Degrade gracefully: record the failure and move on.
		config.LogError(logger, "sgkReminderWorkflow.go", "remindFirm", utils.ErrEmailSendFailed.Code, firm.FirmCode, err)
	}
	return nil
}
