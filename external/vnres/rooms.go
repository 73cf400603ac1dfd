package vnres

import (
	"context"
	"net/url"

	crerr "github.com/cockroachdb/errors"

	"github.com/cloud206/api-footballStreaming/internal/platform/jsonp"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

var roomDetailEnvelopeName = jsonp.NewEnvelope(`detail`)

// FetchRoomStream loads the playlist URLs of one broadcast room.
func (c *Client) FetchRoomStream(ctx context.Context, roomNum string) (usecase.ExternalRoomStream, error) {
	path := "/room/" + url.PathEscape(roomNum) + "/detail.json"

	body, err := c.get(ctx, c.roomBreaker, path, map[string]string{"user-agent": c.userAgent})
	if err != nil {
		return usecase.ExternalRoomStream{}, err
	}

	var payload roomDetailEnvelope
	if err := roomDetailEnvelopeName.Decode(body, &payload); err != nil {
		return usecase.ExternalRoomStream{}, crerr.Wrapf(err, "decode room detail room=%s", roomNum)
	}
	if payload.Code != successCode {
		return usecase.ExternalRoomStream{}, crerr.Mark(crerr.Newf("room detail room=%s code=%d", roomNum, payload.Code), usecase.ErrUpstreamStatus)
	}

	stream := payload.Data.Stream
	if stream == nil {
		return usecase.ExternalRoomStream{}, nil
	}
	return usecase.ExternalRoomStream{SDURL: stream.M3U8, HDURL: stream.HDM3U8}, nil
}
