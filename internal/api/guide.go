package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/TJZine/Retune-sub004/internal/catalog"
	"github.com/TJZine/Retune-sub004/internal/schedule"
	"github.com/TJZine/Retune-sub004/internal/tuner"
)

// defaultUpcomingCount is the number of programs returned by the upcoming
// endpoint when the caller does not specify one
const defaultUpcomingCount = 10

// ProgramResponse represents a scheduled program in API responses
type ProgramResponse struct {
	Item        schedule.Item `json:"item"`
	ItemIndex   int           `json:"item_index"`
	LoopNumber  int64         `json:"loop_number"`
	StartMs     int64         `json:"start_ms"`
	EndMs       int64         `json:"end_ms"`
	ElapsedMs   int64         `json:"elapsed_ms"`
	RemainingMs int64         `json:"remaining_ms"`
}

// WindowResponse represents a guide window of consecutive programs
type WindowResponse struct {
	StartMs  int64             `json:"start_ms"`
	EndMs    int64             `json:"end_ms"`
	Programs []ProgramResponse `json:"programs"`
}

// UpcomingResponse represents the programs following the current one
type UpcomingResponse struct {
	Programs []ProgramResponse `json:"programs"`
}

// GuideHandler handles tuning, playback, and guide API requests
type GuideHandler struct {
	tuner *tuner.Service
}

// NewGuideHandler creates a new guide handler instance
func NewGuideHandler(tunerService *tuner.Service) *GuideHandler {
	return &GuideHandler{tuner: tunerService}
}

func toProgramResponse(p *schedule.Program) ProgramResponse {
	return ProgramResponse{
		Item:        p.Item,
		ItemIndex:   p.ItemIndex,
		LoopNumber:  p.LoopNumber,
		StartMs:     p.StartMs,
		EndMs:       p.EndMs,
		ElapsedMs:   p.ElapsedMs,
		RemainingMs: p.RemainingMs,
	}
}

func toProgramResponses(programs []schedule.Program) []ProgramResponse {
	out := make([]ProgramResponse, 0, len(programs))
	for i := range programs {
		out = append(out, toProgramResponse(&programs[i]))
	}
	return out
}

// TuneChannel handles POST /api/channels/:id/tune
func (h *GuideHandler) TuneChannel(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	program, err := h.tuner.Tune(c.Request.Context(), channelID)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// DetuneChannel handles POST /api/channels/:id/detune
func (h *GuideHandler) DetuneChannel(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	if err := h.tuner.Detune(channelID); err != nil {
		respondTunerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// NowPlaying handles GET /api/channels/:id/now
func (h *GuideHandler) NowPlaying(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	var (
		program *schedule.Program
		err     error
	)
	if atParam := c.Query("at_ms"); atParam != "" {
		atMs, parseErr := strconv.ParseInt(atParam, 10, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_at_ms",
				Message: "at_ms must be an integer epoch millisecond timestamp",
			})
			return
		}
		program, err = h.tuner.ProgramAt(channelID, atMs)
	} else {
		program, err = h.tuner.NowPlaying(channelID)
	}
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// NextProgram handles GET /api/channels/:id/next
func (h *GuideHandler) NextProgram(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	program, err := h.tuner.Next(channelID)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// PreviousProgram handles GET /api/channels/:id/previous
func (h *GuideHandler) PreviousProgram(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	program, err := h.tuner.Previous(channelID)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// GetGuide handles GET /api/channels/:id/guide?start_ms=&end_ms=
func (h *GuideHandler) GetGuide(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	startMs, err := strconv.ParseInt(c.Query("start_ms"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_start_ms",
			Message: "start_ms must be an integer epoch millisecond timestamp",
		})
		return
	}
	endMs, err := strconv.ParseInt(c.Query("end_ms"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_end_ms",
			Message: "end_ms must be an integer epoch millisecond timestamp",
		})
		return
	}

	window, err := h.tuner.Guide(channelID, startMs, endMs)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, WindowResponse{
		StartMs:  window.StartMs,
		EndMs:    window.EndMs,
		Programs: toProgramResponses(window.Programs),
	})
}

// Upcoming handles GET /api/channels/:id/upcoming?count=
func (h *GuideHandler) Upcoming(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	count := defaultUpcomingCount
	if countParam := c.Query("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_count",
				Message: "count must be a positive integer",
			})
			return
		}
		count = parsed
	}

	programs, err := h.tuner.Upcoming(channelID, count)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpcomingResponse{Programs: toProgramResponses(programs)})
}

// SkipNext handles POST /api/channels/:id/skip/next
func (h *GuideHandler) SkipNext(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	program, err := h.tuner.SkipNext(channelID)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// SkipPrevious handles POST /api/channels/:id/skip/previous
func (h *GuideHandler) SkipPrevious(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	program, err := h.tuner.SkipPrevious(channelID)
	if err != nil {
		respondTunerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgramResponse(program))
}

// respondTunerError maps tuner and schedule errors to HTTP responses
func respondTunerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tuner.ErrNotTuned):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "not_tuned",
			Message: "Channel is not tuned",
		})
	case errors.Is(err, tuner.ErrServiceStopped):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "shutting_down",
			Message: "Tuner service is shutting down",
		})
	case errors.Is(err, catalog.ErrChannelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "channel_not_found",
			Message: "Channel not found",
		})
	case errors.Is(err, schedule.ErrChannelEmpty):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "empty_catalog",
			Message: "Channel has no playable catalog items",
		})
	case errors.Is(err, schedule.ErrNoActiveSchedule):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "no_active_schedule",
			Message: "No schedule is loaded for this channel",
		})
	case errors.Is(err, schedule.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_window",
			Message: "Window end must be after window start",
		})
	case errors.Is(err, schedule.ErrNotStarted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "not_started",
			Message: "The schedule has not started yet at the requested time",
		})
	case errors.Is(err, schedule.ErrScheduleFinished):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "schedule_finished",
			Message: "The schedule has already finished at the requested time",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}

// SetupGuideRoutes registers tuning, playback, and guide routes
func SetupGuideRoutes(apiGroup *gin.RouterGroup, tunerService *tuner.Service) {
	handler := NewGuideHandler(tunerService)

	channels := apiGroup.Group("/channels")
	{
		channels.POST("/:id/tune", handler.TuneChannel)
		channels.POST("/:id/detune", handler.DetuneChannel)
		channels.GET("/:id/now", handler.NowPlaying)
		channels.GET("/:id/next", handler.NextProgram)
		channels.GET("/:id/previous", handler.PreviousProgram)
		channels.GET("/:id/guide", handler.GetGuide)
		channels.GET("/:id/upcoming", handler.Upcoming)
		channels.POST("/:id/skip/next", handler.SkipNext)
		channels.POST("/:id/skip/previous", handler.SkipPrevious)
	}
}
