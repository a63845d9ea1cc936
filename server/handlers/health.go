package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogo/database"
)

// HandleHealth verificação de saúde do serviço e do banco
func HandleHealth(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := db.CountClassified()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"erro":   "banco de dados indisponível",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"classificados": total,
		})
	}
}
