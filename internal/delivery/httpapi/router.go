package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(handler *PaymentHandler) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/checkout", handler.CreateCheckout)
		api.GET("/payments/:id", handler.GetTransaction)
		api.GET("/payments/:id/channel", handler.GetChannel)
		api.POST("/payments/settle", handler.Settle)
		api.POST("/commission/preview", handler.PreviewCommission)
		api.POST("/reconciliation/run", handler.RunReconciliation)
	}

	return router
}
