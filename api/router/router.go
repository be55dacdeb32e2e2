package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"typograph/api/handlers"
	"typograph/api/middleware"
	"typograph/db"
)

// New builds the gin engine serving the XML-RPC endpoint, the uploaded
// media files and a health check.
func New(mw *handlers.MetaWeblogHandler, filesDir, filesPublicPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		// Try ping MongoDB
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// XML-RPC entry point. /backend/xmlrpc is the path legacy desktop
	// clients were configured with.
	endpoint := mw.Endpoint()
	r.POST("/xmlrpc", endpoint)
	r.POST("/backend/xmlrpc", endpoint)

	// Uploaded media, addressable at the URLs newMediaObject returns.
	r.Static(filesPublicPath, filesDir)

	return r
}
