package domain

import "time"

type HistoryEntry struct {
	Seq     int
	Dialect DialectID
	Input   string
	At      time.Time
}
