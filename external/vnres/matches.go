package vnres

import (
	"context"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
	"github.com/cloud206/api-footballStreaming/internal/platform/jsonp"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

var matchListEnvelopeName = jsonp.NewEnvelope(`matches_\d+`)

// FetchMatchList loads the schedule published for one UTC day.
func (c *Client) FetchMatchList(ctx context.Context, date match.DateKey, userAgent string) ([]usecase.ExternalMatch, error) {
	path := "/match/matches_" + string(date) + ".json"
	if userAgent == "" {
		userAgent = c.userAgent
	}

	body, err := c.get(ctx, c.matchBreaker, path, map[string]string{
		"referer":    c.referer,
		"user-agent": userAgent,
		"origin":     c.origin,
	})
	if err != nil {
		return nil, err
	}

	var payload matchListEnvelope
	if err := matchListEnvelopeName.Decode(body, &payload); err != nil {
		return nil, crerr.Wrapf(err, "decode match list date=%s", date)
	}
	if payload.Code != successCode {
		return nil, crerr.Mark(crerr.Newf("match list date=%s code=%d", date, payload.Code), usecase.ErrUpstreamStatus)
	}

	// Entries decode one by one so a single odd entry costs only itself.
	out := make([]usecase.ExternalMatch, 0, len(payload.Data))
	for i, raw := range payload.Data {
		var item matchItem
		if err := sonic.Unmarshal(raw, &item); err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable match entry", "date", string(date), "index", i, "error", err)
			continue
		}
		if !item.MatchTime.set {
			c.logger.WarnContext(ctx, "skipping match entry without kickoff time", "date", string(date), "index", i)
			continue
		}
		out = append(out, mapMatchItem(item))
	}
	return out, nil
}

func mapMatchItem(item matchItem) usecase.ExternalMatch {
	rooms := make([]string, 0, len(item.Anchors))
	for _, anchor := range item.Anchors {
		if room := anchor.Anchor.RoomNum; room.set && room.value != "" {
			rooms = append(rooms, room.value)
		}
	}

	return usecase.ExternalMatch{
		HostName:        item.HostName.value,
		HostIcon:        item.HostIcon.value,
		GuestName:       item.GuestName.value,
		GuestIcon:       item.GuestIcon.value,
		MatchTimeMillis: item.MatchTime.Floor(),
		HomeScore:       item.HomeScore.Ptr(),
		AwayScore:       item.AwayScore.Ptr(),
		LeagueName:      item.SubCateName.value,
		CategoryID:      item.CategoryID.value,
		RoomNums:        rooms,
	}
}
