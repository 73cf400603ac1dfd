package match

import "time"

type Status string

const (
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
	// StatusUpcoming renders as "vs", the label shown before kickoff.
	StatusUpcoming Status = "vs"
)

// LiveWindow is how long a match is considered live after kickoff.
const LiveWindow = 2 * time.Hour

const (
	ServerNameSD = "Soco SD"
	ServerNameHD = "Soco HD"
)

// DateKey is a UTC calendar day in YYYYMMDD form, used as the provider lookup key.
type DateKey string

type Team struct {
	Name string
	Logo string
}

type Score struct {
	Home string
	Away string
}

// StreamServer is one playable stream of a live match.
type StreamServer struct {
	Name      string
	StreamURL string
	Referer   string
}

// Match is the normalized listing entry served to callers.
type Match struct {
	KickoffUnix int64
	Status      Status
	Home        Team
	Away        Team
	LeagueName  string
	Score       *Score
	Servers     []StreamServer
}
