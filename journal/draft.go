package journal

import (
	"strconv"

	"github.com/minigarde/portal/api"

	"github.com/pkg/errors"
)

var (
	ErrUnknownField = errors.New("unknown journal field")
	ErrBadValue     = errors.New("invalid value for journal field")
)

// Draft is the locally edited, not-yet-saved copy of one day's entry. It is
// created on the first field edit for a date and discarded on successful
// save or on navigation away.
type Draft struct {
	Temperature       string
	Menu              string
	Appetit           string
	Humeur            string
	SommeilMinutes    *int
	Absent            bool
	Sante             string
	Medicaments       string
	MessageEducatrice string
	Observations      string
}

func draftFromEntry(entry api.JournalEntryTransport) Draft {
	d := Draft{
		Temperature:       entry.Temperature,
		Menu:              entry.Menu,
		Appetit:           entry.Appetit,
		Humeur:            entry.Humeur,
		Absent:            entry.Absent,
		Sante:             entry.Sante,
		Medicaments:       entry.Medicaments,
		MessageEducatrice: entry.MessageEducatrice,
		Observations:      entry.Observations,
	}
	if entry.SommeilMinutes != nil {
		minutes := *entry.SommeilMinutes
		d.SommeilMinutes = &minutes
	}
	return d
}

func (d Draft) toEntry(childId, date string) api.JournalEntryTransport {
	entry := api.JournalEntryTransport{
		ChildId:           childId,
		Date:              date,
		Temperature:       d.Temperature,
		Menu:              d.Menu,
		Appetit:           d.Appetit,
		Humeur:            d.Humeur,
		Absent:            d.Absent,
		Sante:             d.Sante,
		Medicaments:       d.Medicaments,
		MessageEducatrice: d.MessageEducatrice,
		Observations:      d.Observations,
	}
	if d.SommeilMinutes != nil {
		minutes := *d.SommeilMinutes
		entry.SommeilMinutes = &minutes
	}
	return entry
}

func emptyEntry(childId, date string) api.JournalEntryTransport {
	return api.JournalEntryTransport{ChildId: childId, Date: date}
}

// Apply sets one field from its form value. Field names follow the API's
// wire names. An empty sommeil_minutes clears the value; absent only flags
// the day, the other fields are kept so unchecking restores them.
func (d *Draft) Apply(field, value string) error {
	switch field {
	case "temperature":
		d.Temperature = value
	case "menu":
		d.Menu = value
	case "appetit":
		d.Appetit = value
	case "humeur":
		d.Humeur = value
	case "sommeil_minutes":
		if value == "" {
			d.SommeilMinutes = nil
			return nil
		}
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < 0 {
			return errors.Wrapf(ErrBadValue, "sommeil_minutes=%q", value)
		}
		d.SommeilMinutes = &minutes
	case "absent":
		absent, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(ErrBadValue, "absent=%q", value)
		}
		d.Absent = absent
	case "sante":
		d.Sante = value
	case "medicaments":
		d.Medicaments = value
	case "message_educatrice":
		d.MessageEducatrice = value
	case "observations":
		d.Observations = value
	default:
		return errors.Wrapf(ErrUnknownField, "field=%q", field)
	}
	return nil
}
