package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the engine with CORS restricted to allowedOrigins. A "*"
// entry allows every origin.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	SetupRoutes(router, handler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetAllProperties)
		api.POST("/properties", handler.UpsertProperties)
		api.POST("/properties/filter", handler.FilterProperties)
		api.POST("/properties/geojson", handler.FilterPropertiesGeoJSON)
		api.GET("/properties/search", handler.SearchProperties)
		api.GET("/properties/sorted", handler.GetSortedProperties)
		api.GET("/stats", handler.GetPropertyStats)
		api.GET("/suggest", handler.SuggestTitles)
		api.POST("/engine", handler.RunEngine)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
