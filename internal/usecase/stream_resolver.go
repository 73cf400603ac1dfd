package usecase

import (
	"context"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

const defaultStreamResolveConcurrency = 16

// StreamResolver turns broadcast rooms of live matches into stream servers.
// Every room is looked up concurrently and a failed room only loses its own servers.
type StreamResolver struct {
	provider       MatchProvider
	referer        string
	maxConcurrency int
	logger         *logging.Logger
}

func NewStreamResolver(provider MatchProvider, referer string, maxConcurrency int, logger *logging.Logger) *StreamResolver {
	if logger == nil {
		logger = logging.Default()
	}
	if maxConcurrency < 1 {
		maxConcurrency = defaultStreamResolveConcurrency
	}

	return &StreamResolver{
		provider:       provider,
		referer:        referer,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Resolve returns the servers of one match's rooms, in room order.
func (r *StreamResolver) Resolve(ctx context.Context, roomNums []string) []match.StreamServer {
	return r.ResolveMany(ctx, [][]string{roomNums})[0]
}

type roomLookup struct {
	group   int
	index   int
	servers []match.StreamServer
}

// ResolveMany resolves several matches at once; groups[i] holds the rooms of
// match i and out[i] its servers. out[i] is never nil.
func (r *StreamResolver) ResolveMany(ctx context.Context, groups [][]string) [][]match.StreamServer {
	out := make([][]match.StreamServer, len(groups))
	for i := range out {
		out[i] = []match.StreamServer{}
	}

	total := 0
	for _, rooms := range groups {
		total += len(rooms)
	}
	if total == 0 {
		return out
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.StreamResolver.ResolveMany",
		trace.WithAttributes(attribute.Int("rooms", total), attribute.Int("matches", len(groups))))
	defer span.End()

	p := pool.NewWithResults[roomLookup]().WithErrors().WithMaxGoroutines(r.maxConcurrency)
	for g, rooms := range groups {
		for i, room := range rooms {
			room = strings.TrimSpace(room)
			if room == "" {
				continue
			}
			p.Go(func() (lookup roomLookup, err error) {
				defer func() {
					if rec := recover(); rec != nil {
						err = crerr.Newf("panic resolving room %s: %v", room, rec)
					}
				}()

				servers, err := r.resolveRoom(ctx, room)
				if err != nil {
					r.logger.WarnContext(ctx, "resolve room streams failed", "room_num", room, "error", err)
					return roomLookup{}, err
				}
				return roomLookup{group: g, index: i, servers: servers}, nil
			})
		}
	}

	lookups, err := p.Wait()
	if err != nil {
		span.RecordError(err)
		r.logger.DebugContext(ctx, "some rooms resolved without servers", "rooms", total, "resolved", len(lookups))
	}

	sort.Slice(lookups, func(a, b int) bool {
		if lookups[a].group != lookups[b].group {
			return lookups[a].group < lookups[b].group
		}
		return lookups[a].index < lookups[b].index
	})
	for _, lookup := range lookups {
		out[lookup.group] = append(out[lookup.group], lookup.servers...)
	}

	return out
}

func (r *StreamResolver) resolveRoom(ctx context.Context, roomNum string) ([]match.StreamServer, error) {
	stream, err := r.provider.FetchRoomStream(ctx, roomNum)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch room %s", roomNum)
	}

	servers := make([]match.StreamServer, 0, 2)
	if url := strings.TrimSpace(stream.SDURL); url != "" {
		servers = append(servers, match.StreamServer{Name: match.ServerNameSD, StreamURL: url, Referer: r.referer})
	}
	if url := strings.TrimSpace(stream.HDURL); url != "" {
		servers = append(servers, match.StreamServer{Name: match.ServerNameHD, StreamURL: url, Referer: r.referer})
	}
	return servers, nil
}
