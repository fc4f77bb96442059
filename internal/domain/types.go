package domain

import "time"

// TimeEntry is one saved time-clock record: a punched (date, hour) pair
// plus the photo that backs it.
type TimeEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // DD/MM/YYYY
	Hour      string    `json:"hour"` // HH:MM, 24-hour
	CreatedAt time.Time `json:"created_at"`
	FilePath  string    `json:"file_path"`
}

// DayGroup is the read-side view of all entries punched on the same date.
// Entries inside a group are sorted by hour ascending; the zero-padded
// HH:MM format makes the lexicographic order a correct time order.
type DayGroup struct {
	Date    string      `json:"date"`
	Entries []TimeEntry `json:"entries"`
}
