package handler

import (
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine serving the passport endpoints.
func SetupRouter(h *PassportHandler, log *logger.Logger, maxMultipartMemory int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	if maxMultipartMemory > 0 {
		router.MaxMultipartMemory = maxMultipartMemory
	}

	router.GET("/", h.Welcome)
	router.POST("/process", h.Process)
	router.GET("/health", h.Health)

	return router
}
