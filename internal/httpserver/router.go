package httpserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// buildRouter wires the public storefront routes.
func buildRouter(logger *logrus.Logger, reg *registry, ready readyCheck) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	// the catalog is embedded in merchant-shared pages, so any origin may call
	router.Use(cors.Default())
	router.Use(requestID())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(ready))

	public := router.Group("/public/catalog/:token")
	{
		public.GET("", reg.getCatalog)
		public.GET("/cart", reg.getCart)
		public.POST("/cart/items", reg.addItem)
		public.POST("/cart/items/:key/increment", reg.incrementItem)
		public.POST("/cart/items/:key/decrement", reg.decrementItem)
		public.POST("/variant/open", reg.openVariant)
		public.POST("/variant/size", reg.pickVariantSize)
		public.POST("/variant/confirm", reg.confirmVariant)
		public.POST("/variant/cancel", reg.cancelVariant)
		public.POST("/checkout", reg.submitCheckout)
	}

	return router
}

// requestID tags every request so storefront and order-backend logs line up.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
