package core

import "time"

// ProfileCounters are the headline numbers shown next to the avatar.
type ProfileCounters struct {
	Followers    int    `json:"followers"`
	TotalStars   int    `json:"totalStars"`
	TotalCommits int    `json:"totalCommits"`
	TotalPRs     int    `json:"totalPRs"`
	TotalIssues  int    `json:"totalIssues"`
	URL          string `json:"url"`
}

type LanguageShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

type WeekdayShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// GitHubStats is the document written by one aggregation run.
type GitHubStats struct {
	Profile     ProfileCounters `json:"profile"`
	Languages   []LanguageShare `json:"languages"`
	Weekdays    []WeekdayShare  `json:"weekdays"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

type WeatherReport struct {
	City        string    `json:"city"`
	Temp        int       `json:"temp"`
	FeelsLike   int       `json:"feelsLike"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	LastUpdated time.Time `json:"lastUpdated"`

	// Error is set instead of the readings when the weather service refused
	// the request in a way the widget should explain.
	Error string `json:"error,omitempty"`
}
