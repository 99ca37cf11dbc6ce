package http_vote

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	http_common "github.com/humanbelnik/kinomatch/core/internal/delivery/http/common"
	ws_session "github.com/humanbelnik/kinomatch/core/internal/delivery/ws/session"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
	usecase_session "github.com/humanbelnik/kinomatch/core/internal/usecase/session"
	usecase_vote "github.com/humanbelnik/kinomatch/core/internal/usecase/vote"
)

type Controller struct {
	ledger    *usecase_vote.Ledger
	sessions  *usecase_session.Usecase
	evaluator *usecase_endcondition.Evaluator
	hub       *ws_session.Hub

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	ledger *usecase_vote.Ledger,
	sessions *usecase_session.Usecase,
	evaluator *usecase_endcondition.Evaluator,
	hub *ws_session.Hub,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		ledger:    ledger,
		sessions:  sessions,
		evaluator: evaluator,
		hub:       hub,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sessions/:session_id/votes", c.vote)
}

type VoteRequestDTO struct {
	UserID   int64  `json:"user_id"`
	Source   string `json:"source"`
	NativeID string `json:"native_id"`
	Vote     string `json:"vote" enums:"PRO,CONTRA"`
}

func (c *Controller) vote(ctx *gin.Context) {
	sessionID, err := strconv.ParseInt(ctx.Param("session_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid session id",
		})
		return
	}

	var dto VoteRequestDTO
	if err := ctx.ShouldBindJSON(&dto); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request body",
		})
		return
	}

	source, err := model.ParseSource(dto.Source)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}
	vote, err := model.ParseVote(dto.Vote)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	session, err := c.sessions.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, usecase_session.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to load session for vote", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	movieID := model.NewMovieId(source, dto.NativeID, "")
	if err := c.ledger.Cast(ctx, sessionID, dto.UserID, movieID, vote); err != nil {
		c.logger.Error("failed to cast vote", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	c.notifyWatchers(ctx, session, dto.UserID, movieID, vote)

	ctx.Status(http.StatusCreated)
}

// notifyWatchers pushes vote progress and, when the vote produced a match or
// ended the session, the corresponding events. Failures here never fail the
// vote itself.
func (c *Controller) notifyWatchers(ctx *gin.Context, session *model.VotingSession, userID int64, movieID model.MovieId, vote model.Vote) {
	count, err := c.ledger.UserVoteCount(ctx, session.ID, userID)
	if err == nil {
		c.hub.NotifyVoteProgress(session.ID, userID, count)
	}

	if vote == model.VotePro {
		if c.isMatch(ctx, session.ID, movieID) {
			c.hub.NotifyMatchFound(session.ID, string(movieID.Source), movieID.NativeID)
		}
	}

	reason, err := c.evaluator.Evaluate(ctx, session, userID)
	if err == nil && reason != usecase_endcondition.ReasonNone {
		c.hub.NotifySessionOver(session.ID, string(reason))
	}
}

func (c *Controller) isMatch(ctx *gin.Context, sessionID int64, movieID model.MovieId) bool {
	voters, err := c.ledger.DistinctVoters(ctx, sessionID)
	if err != nil || voters <= 1 {
		return false
	}

	tallies, err := c.ledger.Tallies(ctx, sessionID)
	if err != nil {
		return false
	}
	for _, tally := range tallies {
		if tally.Source == movieID.Source && tally.NativeID == movieID.NativeID {
			return len(tally.ProVoters) == voters
		}
	}
	return false
}
