package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// GetMe returns the current user's profile (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"display_name":   user.DisplayName,
			"initial_budget": user.InitialBudget,
			"created_at":     user.CreatedAt,
		},
	})
}
