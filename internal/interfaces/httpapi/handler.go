package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

// MatchFeed is the use case behind GET /matches.
type MatchFeed interface {
	ListMatches(ctx context.Context, req usecase.FeedRequest) ([]match.Match, error)
}

type Handler struct {
	feed        MatchFeed
	logger      *logging.Logger
	exposeStack bool
}

func NewHandler(feed MatchFeed, logger *logging.Logger, exposeStackTraces bool) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		feed:        feed,
		logger:      logger,
		exposeStack: exposeStackTraces,
	}
}

type matchDTO struct {
	MatchTime    string      `json:"match_time"`
	MatchStatus  string      `json:"match_status"`
	HomeTeamName string      `json:"home_team_name"`
	HomeTeamLogo string      `json:"home_team_logo"`
	AwayTeamName string      `json:"away_team_name"`
	AwayTeamLogo string      `json:"away_team_logo"`
	LeagueName   string      `json:"league_name"`
	MatchScore   *string     `json:"match_score"`
	Servers      []serverDTO `json:"servers"`
}

type serverDTO struct {
	Name      string `json:"name"`
	StreamURL string `json:"stream_url"`
	Referer   string `json:"referer"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.feed.ListMatches(ctx, usecase.FeedRequest{UserAgent: r.UserAgent()})
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeInternalError(w, err, h.exposeStack)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}

	if err := writeJSON(w, http.StatusOK, out); err != nil {
		h.logger.ErrorContext(ctx, "encode matches failed", "error", err)
		writeInternalError(w, err, h.exposeStack)
	}
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w)
}

func matchToDTO(m match.Match) matchDTO {
	var score *string
	if m.Score != nil {
		s := m.Score.String()
		score = &s
	}

	servers := make([]serverDTO, 0, len(m.Servers))
	for _, server := range m.Servers {
		servers = append(servers, serverDTO{
			Name:      server.Name,
			StreamURL: server.StreamURL,
			Referer:   server.Referer,
		})
	}

	return matchDTO{
		MatchTime:    strconv.FormatInt(m.KickoffUnix, 10),
		MatchStatus:  string(m.Status),
		HomeTeamName: m.Home.Name,
		HomeTeamLogo: m.Home.Logo,
		AwayTeamName: m.Away.Name,
		AwayTeamLogo: m.Away.Logo,
		LeagueName:   m.LeagueName,
		MatchScore:   score,
		Servers:      servers,
	}
}
