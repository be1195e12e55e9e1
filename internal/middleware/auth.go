package middleware

import (
	"net/http"
	"strings"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentOperatorKey is the gin context key holding the logged-in operator.
const CurrentOperatorKey = "currentOperator"

// AuthMiddleware validates the JWT and puts the operator into the context.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query param ?token=xxx, for downloads where headers are awkward
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		var op models.Operator
		if err := db.First(&op, claims.OperatorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "operator not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operator lookup failed")
			}
			c.Abort()
			return
		}

		c.Set(CurrentOperatorKey, &op)
		c.Next()
	}
}

// CurrentOperator extracts the operator placed by AuthMiddleware, or nil.
func CurrentOperator(c *gin.Context) *models.Operator {
	v, ok := c.Get(CurrentOperatorKey)
	if !ok {
		return nil
	}
	op, ok := v.(*models.Operator)
	if !ok {
		return nil
	}
	return op
}
