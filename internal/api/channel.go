package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/TJZine/Retune-sub004/internal/catalog"
	"github.com/TJZine/Retune-sub004/internal/models"
	"github.com/TJZine/Retune-sub004/internal/schedule"
)

// Request/Response DTOs

// CreateChannelRequest represents a request to create a new channel
type CreateChannelRequest struct {
	Name        string  `json:"name" binding:"required"`
	Number      int     `json:"number" binding:"gte=0"`
	Icon        *string `json:"icon,omitempty"`
	Mode        string  `json:"mode,omitempty"`
	ShuffleSeed *int32  `json:"shuffle_seed,omitempty"`
	PhaseSeed   *int32  `json:"phase_seed,omitempty"`
	Loop        *bool   `json:"loop,omitempty"`
}

// UpdateChannelRequest represents a request to update channel metadata (partial update)
type UpdateChannelRequest struct {
	Name        *string `json:"name,omitempty"`
	Number      *int    `json:"number,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Mode        *string `json:"mode,omitempty"`
	ShuffleSeed *int32  `json:"shuffle_seed,omitempty"`
	PhaseSeed   *int32  `json:"phase_seed,omitempty"`
	Loop        *bool   `json:"loop,omitempty"`
}

// ChannelResponse represents a channel in API responses
type ChannelResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Number      int       `json:"number"`
	Icon        *string   `json:"icon,omitempty"`
	Mode        string    `json:"mode"`
	ShuffleSeed int32     `json:"shuffle_seed"`
	PhaseSeed   int32     `json:"phase_seed"`
	Loop        bool      `json:"loop"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChannelListResponse represents a list of channels
type ChannelListResponse struct {
	Channels []*ChannelResponse `json:"channels"`
}

// CatalogItemRequest represents one item in a catalog write request
type CatalogItemRequest struct {
	Type       string  `json:"type,omitempty"`
	Title      string  `json:"title" binding:"required"`
	ShowName   *string `json:"show_name,omitempty"`
	Season     *int    `json:"season,omitempty"`
	Episode    *int    `json:"episode,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Thumbnail  *string `json:"thumbnail,omitempty"`
	DurationMs int64   `json:"duration_ms" binding:"required,gt=0"`
}

// ReplaceCatalogRequest represents a request to replace a channel's catalog
type ReplaceCatalogRequest struct {
	Items []CatalogItemRequest `json:"items" binding:"required"`
}

// CatalogResponse represents a channel's ordered catalog
type CatalogResponse struct {
	Items           []*models.CatalogItem `json:"items"`
	TotalDurationMs int64                 `json:"total_duration_ms"`
}

// ChannelHandler handles channel and catalog API requests
type ChannelHandler struct {
	catalog *catalog.Service
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(catalogService *catalog.Service) *ChannelHandler {
	return &ChannelHandler{catalog: catalogService}
}

// toChannelResponse converts a channel model to API response format
func toChannelResponse(ch *models.Channel) *ChannelResponse {
	return &ChannelResponse{
		ID:          ch.ID.String(),
		Name:        ch.Name,
		Number:      ch.Number,
		Icon:        ch.Icon,
		Mode:        string(ch.Mode),
		ShuffleSeed: ch.ShuffleSeed,
		PhaseSeed:   ch.PhaseSeed,
		Loop:        ch.Loop,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}

func (r *CatalogItemRequest) toModel() *models.CatalogItem {
	return &models.CatalogItem{
		Type:       r.Type,
		Title:      r.Title,
		ShowName:   r.ShowName,
		Season:     r.Season,
		Episode:    r.Episode,
		Year:       r.Year,
		Thumbnail:  r.Thumbnail,
		DurationMs: r.DurationMs,
	}
}

// CreateChannel handles POST /api/channels
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	mode := schedule.ModeSequential
	if req.Mode != "" {
		mode = schedule.Mode(req.Mode)
	}

	var shuffleSeed, phaseSeed int32
	if req.ShuffleSeed != nil {
		shuffleSeed = *req.ShuffleSeed
	}
	if req.PhaseSeed != nil {
		phaseSeed = *req.PhaseSeed
	}

	// Default loop to true: a virtual channel broadcasts continuously
	loop := true
	if req.Loop != nil {
		loop = *req.Loop
	}

	channel, err := h.catalog.CreateChannel(c.Request.Context(), req.Name, req.Number, req.Icon, mode, shuffleSeed, phaseSeed, loop)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateChannelName):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_name",
				Message: "A channel with this name already exists",
			})
		case errors.Is(err, catalog.ErrInvalidMode):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_mode",
				Message: "Playback mode must be sequential, shuffle, or random",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to create channel",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, toChannelResponse(channel))
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.catalog.ListChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list channels",
		})
		return
	}

	response := ChannelListResponse{Channels: make([]*ChannelResponse, 0, len(channels))}
	for _, ch := range channels {
		response.Channels = append(response.Channels, toChannelResponse(ch))
	}

	c.JSON(http.StatusOK, response)
}

// GetChannel handles GET /api/channels/:id
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	channel, err := h.catalog.GetChannel(c.Request.Context(), channelID)
	if err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(channel))
}

// UpdateChannel handles PATCH /api/channels/:id
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	var req UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	channel, err := h.catalog.GetChannel(c.Request.Context(), channelID)
	if err != nil {
		respondChannelError(c, err)
		return
	}

	if req.Name != nil {
		channel.Name = *req.Name
	}
	if req.Number != nil {
		channel.Number = *req.Number
	}
	if req.Icon != nil {
		channel.Icon = req.Icon
	}
	if req.Mode != nil {
		channel.Mode = schedule.Mode(*req.Mode)
	}
	if req.ShuffleSeed != nil {
		channel.ShuffleSeed = *req.ShuffleSeed
	}
	if req.PhaseSeed != nil {
		channel.PhaseSeed = *req.PhaseSeed
	}
	if req.Loop != nil {
		channel.Loop = *req.Loop
	}

	if err := h.catalog.UpdateChannel(c.Request.Context(), channel); err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateChannelName):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_name",
				Message: "A channel with this name already exists",
			})
		case errors.Is(err, catalog.ErrInvalidMode):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_mode",
				Message: "Playback mode must be sequential, shuffle, or random",
			})
		default:
			respondChannelError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(channel))
}

// DeleteChannel handles DELETE /api/channels/:id
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteChannel(c.Request.Context(), channelID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCatalog handles GET /api/channels/:id/catalog
func (h *ChannelHandler) GetCatalog(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	items, err := h.catalog.GetCatalog(c.Request.Context(), channelID)
	if err != nil {
		respondChannelError(c, err)
		return
	}

	var total int64
	for _, item := range items {
		total += item.DurationMs
	}

	c.JSON(http.StatusOK, CatalogResponse{Items: items, TotalDurationMs: total})
}

// AddCatalogItem handles POST /api/channels/:id/catalog
func (h *ChannelHandler) AddCatalogItem(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	item, err := h.catalog.AddItem(c.Request.Context(), channelID, req.toModel())
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidDuration) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_duration",
				Message: "Item duration must be positive",
			})
			return
		}
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ReplaceCatalog handles PUT /api/channels/:id/catalog
func (h *ChannelHandler) ReplaceCatalog(c *gin.Context) {
	channelID, ok := parseChannelID(c)
	if !ok {
		return
	}

	var req ReplaceCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	items := make([]*models.CatalogItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		items = append(items, itemReq.toModel())
	}

	if err := h.catalog.ReplaceCatalog(c.Request.Context(), channelID, items); err != nil {
		if errors.Is(err, catalog.ErrInvalidDuration) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_duration",
				Message: "All item durations must be positive",
			})
			return
		}
		respondChannelError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveCatalogItem handles DELETE /api/channels/:id/catalog/:item_id
func (h *ChannelHandler) RemoveCatalogItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_item_id",
			Message: "Item ID must be a valid UUID",
		})
		return
	}

	if err := h.catalog.RemoveItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "item_not_found",
				Message: "Catalog item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to remove catalog item",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseChannelID extracts and validates the :id path parameter
func parseChannelID(c *gin.Context) (uuid.UUID, bool) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_channel_id",
			Message: "Channel ID must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return channelID, true
}

// respondChannelError maps catalog errors to HTTP responses
func respondChannelError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrChannelNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "channel_not_found",
			Message: "Channel not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Internal server error",
	})
}

// SetupChannelRoutes registers channel and catalog management routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service) {
	handler := NewChannelHandler(catalogService)

	channels := apiGroup.Group("/channels")
	{
		channels.POST("", handler.CreateChannel)
		channels.GET("", handler.ListChannels)
		channels.GET("/:id", handler.GetChannel)
		channels.PATCH("/:id", handler.UpdateChannel)
		channels.DELETE("/:id", handler.DeleteChannel)
		channels.GET("/:id/catalog", handler.GetCatalog)
		channels.POST("/:id/catalog", handler.AddCatalogItem)
		channels.PUT("/:id/catalog", handler.ReplaceCatalog)
		channels.DELETE("/:id/catalog/:item_id", handler.RemoveCatalogItem)
	}
}
