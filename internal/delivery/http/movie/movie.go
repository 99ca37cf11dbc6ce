package http_movie

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	http_common "github.com/humanbelnik/kinomatch/core/internal/delivery/http/common"
	ws_session "github.com/humanbelnik/kinomatch/core/internal/delivery/ws/session"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_cursor "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
	usecase_session "github.com/humanbelnik/kinomatch/core/internal/usecase/session"
)

// Player starts playback of a library movie on the local media center.
//
//go:generate mockery --name=Player --output=./mocks/movie/player --filename=player.go
type Player interface {
	PlayMovie(ctx context.Context, nativeID string) error
}

type Controller struct {
	cursor   *usecase_cursor.Cursor
	sessions *usecase_session.Usecase
	hub      *ws_session.Hub
	player   Player

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPlayer enables the play-on-media-center endpoint.
func WithPlayer(player Player) ControllerOption {
	return func(c *Controller) {
		c.player = player
	}
}

func New(
	cursor *usecase_cursor.Cursor,
	sessions *usecase_session.Usecase,
	hub *ws_session.Hub,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		cursor:   cursor,
		sessions: sessions,
		hub:      hub,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sessions/:session_id/next", c.next)
	router.POST("/movies/kodi/:native_id/play", c.play)
}

type MovieResponseDTO struct {
	Source         string   `json:"source"`
	NativeID       string   `json:"native_id"`
	Title          string   `json:"title"`
	OriginalTitle  string   `json:"original_title,omitempty"`
	Plot           string   `json:"plot"`
	Year           int      `json:"year"`
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	AgeRating      *int     `json:"age_rating,omitempty"`
	RatingAverage  float64  `json:"rating_average"`
	RatingCount    int      `json:"rating_count"`
	Providers      []string `json:"providers"`
	TrailerIDs     []string `json:"trailer_ids,omitempty"`
	ThumbnailPath  string   `json:"thumbnail_path,omitempty"`
}

type NextResponseDTO struct {
	Movie        *MovieResponseDTO `json:"movie,omitempty"`
	SessionOver  bool              `json:"session_over"`
	OverReason   string            `json:"over_reason,omitempty"`
	NoMoviesLeft bool              `json:"no_movies_left"`
}

func toMovieResponse(movie *model.Movie) *MovieResponseDTO {
	genres := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genres = append(genres, g.DisplayName)
	}
	providers := make([]string, 0, len(movie.Providers))
	for _, p := range movie.Providers {
		providers = append(providers, string(p))
	}
	return &MovieResponseDTO{
		Source:         string(movie.ID.Source),
		NativeID:       movie.ID.NativeID,
		Title:          movie.Title,
		OriginalTitle:  movie.OriginalTitle,
		Plot:           movie.Plot,
		Year:           movie.Year,
		Genres:         genres,
		RuntimeMinutes: movie.RuntimeMinutes,
		AgeRating:      movie.AgeRating,
		RatingAverage:  movie.Rating.Average,
		RatingCount:    movie.Rating.Count,
		Providers:      providers,
		TrailerIDs:     movie.TrailerIDs,
		ThumbnailPath:  movie.ThumbnailPath,
	}
}

// next serves the next-movie protocol. The last seen movie arrives as query
// parameters; omitting them is the sentinel for "continue after my last
// vote".
func (c *Controller) next(ctx *gin.Context) {
	sessionID, err := strconv.ParseInt(ctx.Param("session_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid session id",
		})
		return
	}
	userID, err := strconv.ParseInt(ctx.Query("user_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid user id",
		})
		return
	}

	var last *model.MovieId
	if lastSource := ctx.Query("last_source"); lastSource != "" {
		source, err := model.ParseSource(lastSource)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: err.Error(),
			})
			return
		}
		id := model.NewMovieId(source, ctx.Query("last_native_id"), "")
		last = &id
	}

	session, err := c.sessions.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, usecase_session.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to load session", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	next, err := c.cursor.Advance(ctx, session, userID, last)
	if err != nil {
		if errors.Is(err, usecase_cursor.ErrInvalidState) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "last movie is not part of this session",
			})
			return
		}
		c.logger.Error("failed to advance cursor", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	if next.OverReason != usecase_endcondition.ReasonNone {
		c.hub.NotifySessionOver(sessionID, string(next.OverReason))
		ctx.JSON(http.StatusOK, NextResponseDTO{
			SessionOver: true,
			OverReason:  string(next.OverReason),
		})
		return
	}
	if next.NoMoviesLeft {
		ctx.JSON(http.StatusOK, NextResponseDTO{NoMoviesLeft: true})
		return
	}

	ctx.JSON(http.StatusOK, NextResponseDTO{Movie: toMovieResponse(next.Movie)})
}

// play starts the movie on the local media center.
func (c *Controller) play(ctx *gin.Context) {
	if c.player == nil {
		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{
			Message: "no media center configured",
		})
		return
	}

	if err := c.player.PlayMovie(ctx, ctx.Param("native_id")); err != nil {
		c.logger.Error("failed to start playback", slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "playback failed",
		})
		return
	}
	ctx.Status(http.StatusAccepted)
}
