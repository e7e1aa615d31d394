// Package i18n holds the site's English/French strings.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	EN Lang = "en"
	FR Lang = "fr"
)

// Entry is one key translated into every supported language.
type Entry struct {
	EN string
	FR string
}

func (e Entry) get(l Lang) string {
	if l == FR {
		return e.FR
	}
	return e.EN
}

var catalog = map[string]Entry{
	"github_stats": {EN: "GitHub stats", FR: "Stats GitHub"},
	"weather":      {EN: "Weather", FR: "Météo"},
	"life_tracker": {EN: "Life tracker", FR: "Suivi de vie"},
	"languages":    {EN: "Languages", FR: "Langues"},
	"tech_stack":   {EN: "Tech stack", FR: "Compétences"},

	"followers":     {EN: "Followers", FR: "Abonnés"},
	"total_stars":   {EN: "Total stars earned", FR: "Étoiles gagnées"},
	"total_commits": {EN: "Total commits", FR: "Total commits"},
	"total_prs":     {EN: "Total PRs", FR: "Total PRs"},
	"total_issues":  {EN: "Total Issues", FR: "Total Issues"},
	"weekdays":      {EN: "Weekdays", FR: "Jours de la semaine"},

	"feels_like": {EN: "Feels Like", FR: "Ressenti"},
	"humidity":   {EN: "Humidity", FR: "Humidité"},
	"wind_speed": {EN: "Wind Speed", FR: "Vent"},

	"day_mon": {EN: "Mon", FR: "Lun"},
	"day_tue": {EN: "Tue", FR: "Mar"},
	"day_wed": {EN: "Wed", FR: "Mer"},
	"day_thu": {EN: "Thu", FR: "Jeu"},
	"day_fri": {EN: "Fri", FR: "Ven"},
	"day_sat": {EN: "Sat", FR: "Sam"},
	"day_sun": {EN: "Sun", FR: "Dim"},
}

// T returns key translated into lang, or key itself when there is no
// translation.
func T(lang Lang, key string) string {
	if e, ok := catalog[key]; ok {
		if s := e.get(lang); s != "" {
			return s
		}
	}
	return key
}

// Toggle switches between English and French.
func Toggle(l Lang) Lang {
	if l == FR {
		return EN
	}
	return FR
}

var (
	supported = []Lang{EN, FR}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.French})
)

// Negotiate maps a locale such as "fr-FR", "fr_CA.UTF-8" or "en" to a
// supported language, defaulting to English.
func Negotiate(locale string) Lang {
	locale, _, _ = strings.Cut(locale, ".")
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return EN
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return EN
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return EN
	}
	return supported[idx]
}
