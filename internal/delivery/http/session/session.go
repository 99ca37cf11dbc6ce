package http_session

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_common "github.com/humanbelnik/kinomatch/core/internal/delivery/http/common"
	ws_session "github.com/humanbelnik/kinomatch/core/internal/delivery/ws/session"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_session "github.com/humanbelnik/kinomatch/core/internal/usecase/session"
)

type Controller struct {
	usecase *usecase_session.Usecase
	hub     *ws_session.Hub

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_session.Usecase, hub *ws_session.Hub, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", c.create)
		sessions.GET("", c.list)
		sessions.GET("/:session_id", c.get)
		sessions.DELETE("/:session_id", c.remove)
		sessions.GET("/:session_id/status", c.status)
		sessions.GET("/:session_id/events", c.watch)
	}
}

type CreateSessionRequestDTO struct {
	Name      string   `json:"name"`
	CreatorID int64    `json:"creator_id"`
	Seed      int64    `json:"seed,omitempty"`
	Providers []string `json:"providers"`

	MustGenres     []int64 `json:"must_genres,omitempty"`
	ExcludedGenres []int64 `json:"excluded_genres,omitempty"`

	MaxAge         *int     `json:"max_age,omitempty"`
	MaxDuration    *int     `json:"max_duration,omitempty"`
	MinYear        *int     `json:"min_year,omitempty"`
	MaxYear        *int     `json:"max_year,omitempty"`
	IncludeWatched *bool    `json:"include_watched,omitempty"`
	MinRating      *float64 `json:"min_rating,omitempty"`
	MinVotes       *int     `json:"min_votes,omitempty"`

	EndMaxMinutes int `json:"end_max_minutes,omitempty"`
	EndMaxVotes   int `json:"end_max_votes,omitempty"`
	EndMaxMatches int `json:"end_max_matches,omitempty"`

	SortBy        string   `json:"sort_by,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty"`
	DiscoverTotal int      `json:"discover_total,omitempty"`
	VoteAverage   *float64 `json:"vote_average,omitempty"`
	VoteCount     *int     `json:"vote_count,omitempty"`
	Region        string   `json:"region,omitempty"`
	Language      string   `json:"language,omitempty"`
}

type SessionResponseDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	HashToken string    `json:"hash_token"`
	CreatorID int64     `json:"creator_id"`
	StartDate time.Time `json:"start_date"`
	Providers []string  `json:"providers"`
}

func toSessionResponse(session *model.VotingSession) SessionResponseDTO {
	providers := make([]string, 0, len(session.Providers))
	for _, p := range session.Providers {
		providers = append(providers, string(p))
	}
	return SessionResponseDTO{
		ID:        session.ID,
		Name:      session.Name,
		HashToken: session.HashToken,
		CreatorID: session.CreatorID,
		StartDate: session.StartDate,
		Providers: providers,
	}
}

func (dto *CreateSessionRequestDTO) toDomain() (*model.VotingSession, error) {
	misc := model.WidestMiscFilter()
	if dto.MaxAge != nil {
		misc.MaxAge = *dto.MaxAge
	}
	if dto.MaxDuration != nil {
		misc.MaxDuration = *dto.MaxDuration
	}
	if dto.MinYear != nil {
		misc.MinYear = *dto.MinYear
	}
	if dto.MaxYear != nil {
		misc.MaxYear = *dto.MaxYear
	}
	if dto.IncludeWatched != nil {
		misc.IncludeWatched = *dto.IncludeWatched
	}
	if dto.MinRating != nil {
		misc.MinRating = *dto.MinRating
	}
	if dto.MinVotes != nil {
		misc.MinVotes = *dto.MinVotes
	}

	session := &model.VotingSession{
		Name:      dto.Name,
		CreatorID: dto.CreatorID,
		Seed:      dto.Seed,
		Genres: model.GenreSelection{
			Must:     dto.MustGenres,
			Excluded: dto.ExcludedGenres,
		},
		Misc: misc,
		End: model.EndConditions{
			MaxMinutes: dto.EndMaxMinutes,
			MaxVotes:   dto.EndMaxVotes,
			MaxMatches: dto.EndMaxMatches,
		},
		Discover: model.Discover{
			SortBy:      dto.SortBy,
			SortOrder:   dto.SortOrder,
			Total:       dto.DiscoverTotal,
			VoteAverage: dto.VoteAverage,
			VoteCount:   dto.VoteCount,
			Region:      dto.Region,
			Language:    dto.Language,
		},
	}

	for _, p := range dto.Providers {
		provider, err := model.ParseProvider(p)
		if err != nil {
			return nil, err
		}
		session.Providers = append(session.Providers, provider)
	}
	return session, nil
}

func (c *Controller) create(ctx *gin.Context) {
	var dto CreateSessionRequestDTO
	if err := ctx.ShouldBindJSON(&dto); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request body",
		})
		return
	}

	session, err := dto.toDomain()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	created, err := c.usecase.Create(ctx, session)
	if err != nil {
		c.logger.Error("failed to create session", slog.String("error", err.Error()))
		if errors.Is(err, usecase_session.ErrConfiguration) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusCreated, toSessionResponse(created))
}

func (c *Controller) list(ctx *gin.Context) {
	sessions, err := c.usecase.List(ctx)
	if err != nil {
		c.logger.Error("failed to list sessions", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	response := make([]SessionResponseDTO, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, toSessionResponse(session))
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *Controller) get(ctx *gin.Context) {
	sessionID, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	session, err := c.usecase.ByID(ctx, sessionID)
	if err != nil {
		c.respondError(ctx, "failed to get session", err)
		return
	}
	ctx.JSON(http.StatusOK, toSessionResponse(session))
}

func (c *Controller) remove(ctx *gin.Context) {
	sessionID, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	if err := c.usecase.Delete(ctx, sessionID); err != nil {
		c.respondError(ctx, "failed to delete session", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type StatusResponseDTO struct {
	Voters  []int64        `json:"voters"`
	Matches int            `json:"matches"`
	Tallies []VoteTallyDTO `json:"tallies"`
}

type VoteTallyDTO struct {
	Source       string  `json:"source"`
	NativeID     string  `json:"native_id"`
	ProVoters    []int64 `json:"pro_voters"`
	ContraVoters []int64 `json:"contra_voters"`
}

func (c *Controller) status(ctx *gin.Context) {
	sessionID, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	status, err := c.usecase.Status(ctx, sessionID)
	if err != nil {
		c.respondError(ctx, "failed to get session status", err)
		return
	}

	tallies := make([]VoteTallyDTO, 0, len(status.Tallies))
	for _, tally := range status.Tallies {
		tallies = append(tallies, VoteTallyDTO{
			Source:       string(tally.Source),
			NativeID:     tally.NativeID,
			ProVoters:    tally.ProVoters,
			ContraVoters: tally.ContraVoters,
		})
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{
		Voters:  status.Voters,
		Matches: status.Matches,
		Tallies: tallies,
	})
}

// watch upgrades to a websocket feeding session events.
func (c *Controller) watch(ctx *gin.Context) {
	sessionID, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &ws_session.Client{
		Hub:       c.hub,
		Conn:      conn,
		Send:      make(chan []byte, 16),
		SessionID: sessionID,
	}
	c.hub.RegisterClient(client)

	go c.hub.StartClientWriting(client)
	go c.hub.StartClientReading(client)
}

func (c *Controller) respondError(ctx *gin.Context, message string, err error) {
	c.logger.Error(message, slog.String("error", err.Error()))
	if errors.Is(err, usecase_session.ErrResourceNotFound) {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
		return
	}
	ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
		Message: "internal error",
	})
}

func sessionIDParam(ctx *gin.Context) (int64, bool) {
	sessionID, err := strconv.ParseInt(ctx.Param("session_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid session id",
		})
		return 0, false
	}
	return sessionID, true
}
