package http_genre

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/humanbelnik/kinomatch/core/internal/delivery/http/common"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_genre "github.com/humanbelnik/kinomatch/core/internal/usecase/genre"
)

type Controller struct {
	registry *usecase_genre.Registry
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(registry *usecase_genre.Registry, opts ...ControllerOption) *Controller {
	c := &Controller{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/genres", c.list)
}

type GenreResponseDTO struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// list serves the merged, deduplicated genre list for session creation UIs.
func (c *Controller) list(ctx *gin.Context) {
	genres, err := c.registry.MergeAll(ctx, ctx.Query("language"))
	if err != nil {
		c.logger.Error("failed to merge genres", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	response := make([]GenreResponseDTO, 0, len(genres))
	for _, genre := range genres {
		response = append(response, toGenreResponse(genre))
	}
	ctx.JSON(http.StatusOK, response)
}

func toGenreResponse(genre model.GenreId) GenreResponseDTO {
	return GenreResponseDTO{
		ID:          genre.ID,
		DisplayName: genre.DisplayName,
	}
}
