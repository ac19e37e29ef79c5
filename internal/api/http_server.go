package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/application"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// SkuService is the facade the HTTP layer depends on.
type SkuService interface {
	ImportSkus(ctx context.Context, skus []domain.Sku) (application.ImportResult, error)
	GetByID(ctx context.Context, skuID uint64) (*domain.Sku, error)
	GetByWarehouse(ctx context.Context, warehouseID uint64) ([]domain.Sku, error)
	GetByItem(ctx context.Context, itemID uint64) ([]domain.Sku, error)
}

// Server agrupa deps para la capa HTTP.
type Server struct {
	skus SkuService
}

func NewServer(skus SkuService) *Server {
	return &Server{skus: skus}
}

// NewRouter builds the gin engine with recovery, request logging and all routes.
func (s *Server) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware())
	s.RegisterRoutes(router)
	return router
}

func (s *Server) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", s.handleHealth)
	router.GET("/swagger.json", s.handleSwaggerJson)

	v1 := router.Group("/v1")
	{
		v1.POST("/skus/import", s.handleImport)
		v1.GET("/skus/:skuId", s.handleGetByID)
		v1.GET("/warehouses/:warehouseId/skus", s.handleGetByWarehouse)
		v1.GET("/items/:itemId/skus", s.handleGetByItem)
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

type importRequest struct {
	Skus []domain.Sku `json:"skus"`
}

type skuListResponse struct {
	Skus []domain.Sku `json:"skus"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// POST /v1/skus/import
func (s *Server) handleImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body: "+err.Error())
		return
	}

	res, err := s.skus.ImportSkus(c.Request.Context(), req.Skus)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/skus/:skuId
func (s *Server) handleGetByID(c *gin.Context) {
	id, ok := pathID(c, "skuId")
	if !ok {
		return
	}

	sku, err := s.skus.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

// GET /v1/warehouses/:warehouseId/skus
func (s *Server) handleGetByWarehouse(c *gin.Context) {
	id, ok := pathID(c, "warehouseId")
	if !ok {
		return
	}

	skus, err := s.skus.GetByWarehouse(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, skuListResponse{Skus: skus})
}

// GET /v1/items/:itemId/skus
func (s *Server) handleGetByItem(c *gin.Context) {
	id, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	skus, err := s.skus.GetByItem(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, skuListResponse{Skus: skus})
}

// GET /swagger.json
func (s *Server) handleSwaggerJson(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(openAPISpec))
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", name+" must be an unsigned integer")
		return 0, false
	}
	return id, true
}

// writeServiceError maps the facade sentinels onto HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "sku not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		if !errors.Is(err, domain.ErrInternal) {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("unclassified service error")
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
