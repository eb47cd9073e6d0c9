package views

import (
	"fmt"
	"time"

	"github.com/minigarde/portal/api"
)

// Option is one choice of a picker widget (weather, mood, appetite).
type Option struct {
	Value string
	Label string
	Emoji string
}

func WeatherOptions() []Option {
	return []Option{
		{Value: api.WeatherSunny, Label: "Ensoleillé", Emoji: "☀️"},
		{Value: api.WeatherCloudy, Label: "Nuageux", Emoji: "☁️"},
		{Value: api.WeatherRain, Label: "Pluie", Emoji: "🌧️"},
		{Value: api.WeatherSnow, Label: "Neige", Emoji: "❄️"},
		{Value: api.WeatherStormy, Label: "Orageux", Emoji: "⛈️"},
	}
}

func MoodOptions() []Option {
	return []Option{
		{Value: api.MoodGreat, Label: "Très bien", Emoji: "😄"},
		{Value: api.MoodGood, Label: "Bien", Emoji: "🙂"},
		{Value: api.MoodDifficult, Label: "Difficile", Emoji: "😟"},
		{Value: api.MoodTears, Label: "Pleurs", Emoji: "😢"},
	}
}

func AppetiteOptions() []Option {
	return []Option{
		{Value: api.AppetiteUsual, Label: "Comme d'habitude", Emoji: "🍽️"},
		{Value: api.AppetiteLittle, Label: "Peu", Emoji: "🥄"},
		{Value: api.AppetiteLots, Label: "Beaucoup", Emoji: "😋"},
		{Value: api.AppetiteRefused, Label: "Refusé", Emoji: "🚫"},
	}
}

// sleepBarScale is the full width of the nap bar, in minutes.
const sleepBarScale = 240

// SleepBarPercent maps a nap duration to a bar width percentage, capped at
// the 4-hour scale.
func SleepBarPercent(minutes *int) int {
	if minutes == nil || *minutes <= 0 {
		return 0
	}
	percent := *minutes * 100 / sleepBarScale
	if percent > 100 {
		return 100
	}
	return percent
}

// FormatSleep renders minutes as "1 h 30".
func FormatSleep(minutes *int) string {
	if minutes == nil {
		return "—"
	}
	h, m := *minutes/60, *minutes%60
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %02d", h, m)
}

// FormatBytes renders a document size human-readable.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d o", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %co", float64(size)/float64(div), "KMGT"[exp])
}

var frenchWeekdays = []string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

func WeekdayLabel(t time.Time) string {
	return frenchWeekdays[int(t.Weekday())]
}

func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
