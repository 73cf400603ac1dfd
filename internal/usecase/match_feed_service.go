package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
	"github.com/cloud206/api-footballStreaming/internal/platform/jsonp"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

// TaskSubmitter runs a task on a shared worker pool (ants.Pool satisfies it).
type TaskSubmitter interface {
	Submit(task func()) error
}

type MatchFeedConfig struct {
	UserAgent            string
	PassthroughUserAgent bool
}

// FeedRequest carries the caller attributes that may be forwarded upstream.
type FeedRequest struct {
	UserAgent string
}

// MatchFeedService builds the three-day match feed.
type MatchFeedService struct {
	provider MatchProvider
	resolver *StreamResolver
	workers  TaskSubmitter
	cfg      MatchFeedConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchFeedService(
	provider MatchProvider,
	resolver *StreamResolver,
	workers TaskSubmitter,
	cfg MatchFeedConfig,
	logger *logging.Logger,
) *MatchFeedService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchFeedService{
		provider: provider,
		resolver: resolver,
		workers:  workers,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used to pick the date window and derive statuses.
func (s *MatchFeedService) WithClock(now func() time.Time) *MatchFeedService {
	if now != nil {
		s.now = now
	}
	return s
}

// ListMatches returns yesterday's, today's and tomorrow's matches in that
// order. A failing date contributes nothing instead of failing the feed.
func (s *MatchFeedService) ListMatches(ctx context.Context, req FeedRequest) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFeedService.ListMatches")
	defer span.End()

	if s.provider == nil || s.resolver == nil {
		return nil, crerr.Wrap(ErrDependencyUnavailable, "match feed service is not wired")
	}

	now := s.now()
	userAgent := s.userAgentFor(req)
	dates := match.DateWindow(now)
	perDate := make([][]match.Match, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			perDate[i] = s.listDate(ctx, date, userAgent, now)
		}

		if s.workers == nil {
			task()
			continue
		}
		if err := s.workers.Submit(task); err != nil {
			s.logger.WarnContext(ctx, "date worker pool rejected task, fetching inline", "date", string(date), "error", err)
			task()
		}
	}
	wg.Wait()

	total := 0
	for _, items := range perDate {
		total += len(items)
	}
	out := make([]match.Match, 0, total)
	for _, items := range perDate {
		out = append(out, items...)
	}

	span.SetAttributes(attribute.Int("matches", len(out)))
	return out, nil
}

func (s *MatchFeedService) userAgentFor(req FeedRequest) string {
	if s.cfg.PassthroughUserAgent {
		if ua := strings.TrimSpace(req.UserAgent); ua != "" {
			return ua
		}
	}
	return s.cfg.UserAgent
}

func (s *MatchFeedService) listDate(ctx context.Context, date match.DateKey, userAgent string, now time.Time) []match.Match {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFeedService.listDate",
		trace.WithAttributes(attribute.String("date", string(date))))
	defer span.End()

	items, err := s.provider.FetchMatchList(ctx, date, userAgent)
	if err != nil {
		if crerr.Is(err, jsonp.ErrNoPayload) || crerr.Is(err, ErrUpstreamStatus) {
			s.logger.InfoContext(ctx, "no match list for date", "date", string(date), "reason", err.Error())
		} else {
			span.RecordError(err)
			s.logger.WarnContext(ctx, "fetch match list failed", "date", string(date), "error", err)
		}
		return []match.Match{}
	}

	out := make([]match.Match, 0, len(items))
	liveIdx := make([]int, 0)
	liveRooms := make([][]string, 0)
	for _, item := range items {
		m := normalizeMatch(item, now)
		if m.Status.IsLive() && len(item.RoomNums) > 0 {
			liveIdx = append(liveIdx, len(out))
			liveRooms = append(liveRooms, item.RoomNums)
		}
		out = append(out, m)
	}

	if len(liveRooms) > 0 {
		resolved := s.resolver.ResolveMany(ctx, liveRooms)
		for i, idx := range liveIdx {
			out[idx].Servers = resolved[i]
		}
	}

	return out
}

func normalizeMatch(item ExternalMatch, now time.Time) match.Match {
	kickoff := floorDiv(item.MatchTimeMillis, 1000)

	return match.Match{
		KickoffUnix: kickoff,
		Status:      match.DeriveStatus(now, kickoff),
		Home:        match.Team{Name: item.HostName, Logo: item.HostIcon},
		Away:        match.Team{Name: item.GuestName, Logo: item.GuestIcon},
		LeagueName:  item.LeagueName,
		Score:       match.NewScore(item.HomeScore, item.AwayScore),
		Servers:     []match.StreamServer{},
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
