package privacy

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/journal"
	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var (
	ErrPasswordTooShort = errors.New("new password is too short")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

const minPasswordLength = 8

// exportWeeks is how far back the personal data export reaches.
const exportWeeks = 4

type Service struct {
	Auth     api.AuthClient     `inject:""`
	Children api.ChildrenClient `inject:""`
	Journal  api.JournalClient  `inject:""`
}

func (s *Service) Consent(ctx context.Context, sess *session.Session) (api.ConsentTransport, error) {
	consent, err := s.Auth.GetConsent(ctx, sess)
	if err != nil {
		return consent, errors.Wrap(err, "failed to get consent")
	}
	return consent, nil
}

// UpdatePhotosConsent toggles the only guardian-editable consent flag. The
// privacy flag itself is server state echoed back, never written here.
func (s *Service) UpdatePhotosConsent(ctx context.Context, sess *session.Session, accepted bool) (api.ConsentTransport, error) {
	consent, err := s.Auth.UpdateConsent(ctx, sess, accepted)
	if err != nil {
		return consent, errors.Wrap(err, "failed to update consent")
	}
	return consent, nil
}

func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, current, next, confirm string) error {
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	if err := s.Auth.ChangePassword(ctx, sess, current, next); err != nil {
		return errors.Wrap(err, "failed to change password")
	}
	return nil
}

func (s *Service) UpdateEmail(ctx context.Context, sess *session.Session, newEmail, password string) error {
	if err := s.Auth.UpdateEmail(ctx, sess, newEmail, password); err != nil {
		return errors.Wrap(err, "failed to update email")
	}
	return nil
}

func (s *Service) RequestAccountDeletion(ctx context.Context, sess *session.Session) error {
	if err := s.Auth.RequestAccountDeletion(ctx, sess); err != nil {
		return errors.Wrap(err, "failed to request account deletion")
	}
	return nil
}

var exportJournalHeader = []interface{}{
	"Date", "Absent", "Météo", "Menu", "Appétit", "Humeur",
	"Sieste (min)", "Santé", "Médicaments", "Message", "Observations",
}

// Export builds the parent's personal data workbook: one sheet per child
// with that child's journal entries over the trailing weeks.
func (s *Service) Export(ctx context.Context, sess *session.Session) ([]byte, error) {
	childList, err := s.Children.ListChildren(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list children for export")
	}

	f := excelize.NewFile()
	defer f.Close()

	currentWeek := journal.WeekStart(time.Now().UTC())

	for i, child := range childList {
		sheet := exportSheetName(i+1, child)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, errors.Wrap(err, "failed to add export sheet")
			}
		}

		if err := writeRow(f, sheet, 1, exportJournalHeader); err != nil {
			return nil, err
		}

		row := 2
		for week := 0; week < exportWeeks; week++ {
			weekStart := currentWeek.AddDate(0, 0, -7*week)
			entries, err := s.Journal.GetWeek(ctx, sess, child.Id, weekStart.Format(journal.DateLayout))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to fetch journal week %s", weekStart.Format(journal.DateLayout))
			}
			for _, entry := range entries {
				if err := writeRow(f, sheet, row, entryRow(entry)); err != nil {
					return nil, err
				}
				row++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write export workbook")
	}
	return buf.Bytes(), nil
}

// exportSheetName keeps sheet names unique and within the 31-character
// workbook limit; two siblings can share a full name, so the child's
// position prefixes it.
func exportSheetName(position int, child api.ChildTransport) string {
	name := fmt.Sprintf("%d %s %s", position, child.FirstName, child.LastName)
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}

func entryRow(entry api.JournalEntryTransport) []interface{} {
	row := []interface{}{
		entry.Date,
		boolLabel(entry.Absent),
		entry.Temperature,
		entry.Menu,
		entry.Appetit,
		entry.Humeur,
		nil,
		entry.Sante,
		entry.Medicaments,
		entry.MessageEducatrice,
		entry.Observations,
	}
	if entry.SommeilMinutes != nil {
		row[6] = *entry.SommeilMinutes
	}
	return row
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "failed to compute cell name")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrap(err, "failed to write export row")
	}
	return nil
}

func boolLabel(v bool) string {
	if v {
		return "oui"
	}
	return "non"
}
