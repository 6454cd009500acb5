package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propsearch/internal/database"
	"propsearch/internal/dispatcher"
	"propsearch/internal/geometry"
	"propsearch/internal/models"
	"propsearch/internal/processor"
	"propsearch/internal/queue"
	"propsearch/internal/suggest"
)

type Handler struct {
	db        *database.Database
	processor *processor.RequestProcessor
	logger    *logrus.Logger
}

type CityQuery struct {
	City string `form:"city"`
}

type SearchQuery struct {
	CityQuery
	Query string `form:"q"`
	Fuzzy *bool  `form:"fuzzy"`
}

type SortQuery struct {
	CityQuery
	Key   string `form:"key" binding:"required"`
	Order string `form:"order"`
}

type SuggestQuery struct {
	CityQuery
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

func NewHandler(db *database.Database, processor *processor.RequestProcessor, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:        db,
		processor: processor,
		logger:    logger,
	}
}

func (h *Handler) GetAllProperties(c *gin.Context) {
	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *Handler) UpsertProperties(c *gin.Context) {
	var records []models.PropertyRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		h.logger.WithError(err).Warn("Failed to parse properties")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid properties payload"})
		return
	}

	if err := h.db.UpsertProperties(c.Request.Context(), records); err != nil {
		if errors.Is(err, database.ErrMissingID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to upsert properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upserted": len(records)})
}

func (h *Handler) FilterProperties(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Warn("Failed to parse filter criteria")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter criteria"})
		return
	}

	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	resp, ok := h.run(c, dispatcher.FilterPayload{Records: properties, Criteria: criteria})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp.Filter)
}

// FilterPropertiesGeoJSON filters like FilterProperties and returns the
// passing records as a GeoJSON FeatureCollection with per-city hulls.
func (h *Handler) FilterPropertiesGeoJSON(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Warn("Failed to parse filter criteria")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter criteria"})
		return
	}

	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	resp, ok := h.run(c, dispatcher.FilterPayload{Records: properties, Criteria: criteria})
	if !ok {
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, geometry.FeatureCollection(resp.Filter.Passing))
}

func (h *Handler) SearchProperties(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	resp, ok := h.run(c, dispatcher.SearchPayload{Records: properties, Query: query.Query, Fuzzy: query.Fuzzy})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp.Search)
}

func (h *Handler) GetSortedProperties(c *gin.Context) {
	var query SortQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sort key"})
		return
	}

	key := models.SortKey(query.Key)
	if !key.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sort key", "validKeys": models.SortKeys})
		return
	}

	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	resp, ok := h.run(c, dispatcher.SortPayload{Records: properties, Key: key, Order: models.SortOrder(query.Order)})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp.Sort)
}

func (h *Handler) GetPropertyStats(c *gin.Context) {
	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	resp, ok := h.run(c, dispatcher.StatsPayload{Records: properties})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp.Stats)
}

func (h *Handler) SuggestTitles(c *gin.Context) {
	var query SuggestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid suggest parameters"})
		return
	}

	properties, ok := h.loadProperties(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, suggest.Titles(properties, query.Query, query.Limit))
}

// RunEngine accepts a raw request envelope carrying its own records and
// returns the full response.
func (h *Handler) RunEngine(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	req, err := dispatcher.DecodeRequest(body)
	if err != nil {
		h.logger.WithError(err).Warn("Rejected engine request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, ok := h.submit(c, req)
	if !ok {
		return
	}

	status := http.StatusOK
	if resp.Kind == dispatcher.KindError {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

func (h *Handler) loadProperties(c *gin.Context) ([]models.PropertyRecord, bool) {
	properties, err := h.db.GetAllProperties(c.Request.Context(), c.Query("city"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return nil, false
	}
	return properties, true
}

// run dispatches payload and writes the error response itself when the
// request fails.
func (h *Handler) run(c *gin.Context, payload dispatcher.Payload) (dispatcher.Response, bool) {
	resp, ok := h.submit(c, dispatcher.NewRequest(uuid.NewString(), payload))
	if !ok {
		return resp, false
	}
	if resp.Kind == dispatcher.KindError {
		c.JSON(http.StatusUnprocessableEntity, resp)
		return resp, false
	}
	return resp, true
}

func (h *Handler) submit(c *gin.Context, req dispatcher.Request) (dispatcher.Response, bool) {
	c.Header("X-Request-ID", req.ID)

	resp, err := h.processor.Do(c.Request.Context(), req)
	if err == nil {
		return resp, true
	}

	fields := logrus.Fields{"request_id": req.ID, "operation": req.Operation}
	switch {
	case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrQueueClosed):
		h.logger.WithFields(fields).WithError(err).Warn("Engine unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Engine is busy, try again later"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.WithFields(fields).WithError(err).Warn("Gave up waiting for engine")
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Engine did not answer in time"})
	default:
		h.logger.WithFields(fields).WithError(err).Error("Engine request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Engine request failed"})
	}
	return dispatcher.Response{}, false
}

