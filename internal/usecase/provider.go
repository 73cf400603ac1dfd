package usecase

import (
	"context"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
)

// MatchProvider is the upstream source of match listings and room streams.
type MatchProvider interface {
	FetchMatchList(ctx context.Context, date match.DateKey, userAgent string) ([]ExternalMatch, error)
	FetchRoomStream(ctx context.Context, roomNum string) (ExternalRoomStream, error)
}

type ExternalMatch struct {
	HostName        string
	HostIcon        string
	GuestName       string
	GuestIcon       string
	MatchTimeMillis int64
	HomeScore       *string
	AwayScore       *string
	LeagueName      string
	CategoryID      string
	RoomNums        []string
}

// ExternalRoomStream holds the playlist URLs of one room; empty means absent.
type ExternalRoomStream struct {
	SDURL string
	HDURL string
}
