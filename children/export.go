package children

import (
	"bytes"
	"context"
	"strings"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Enfants"

var exportHeader = []interface{}{"Prénom", "Nom", "Date de naissance", "Groupe", "Actif", "Parents"}

// Export builds the roster workbook: one row per child with its group name
// and the parents' display names.
func (s *Service) Export(ctx context.Context, sess *session.Session) ([]byte, error) {
	childList, err := s.Client.ListChildren(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list children for export")
	}
	groups, err := s.Groups.ListGroups(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups for export")
	}
	groupNames := make(map[string]string, len(groups))
	for _, group := range groups {
		groupNames[group.Id] = group.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), exportSheet)

	if err := writeRow(f, 1, exportHeader); err != nil {
		return nil, err
	}

	for i, child := range childList {
		parents, err := s.Client.ListParents(ctx, sess, child.Id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list parents of child %s", child.Id)
		}

		row := []interface{}{
			child.FirstName,
			child.LastName,
			child.BirthDate,
			groupNames[child.GroupId],
			activeLabel(child.IsActive),
			parentNames(parents),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write export workbook")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "failed to compute cell name")
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return errors.Wrap(err, "failed to write export row")
	}
	return nil
}

func parentNames(parents []api.ChildParentTransport) string {
	names := make([]string, 0, len(parents))
	for _, parent := range parents {
		names = append(names, parent.FirstName+" "+parent.LastName+" ("+parent.Relationship+")")
	}
	return strings.Join(names, ", ")
}

func activeLabel(active bool) string {
	if active {
		return "oui"
	}
	return "non"
}
