package handler

import (
	"net/http"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/middleware"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the logged-in operator.
func GetMe(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	util.Success(c, util.Response{
		"operator": gin.H{
			"id":            op.ID,
			"username":      op.Username,
			"display_name":  op.DisplayName,
			"last_login_at": op.LastLoginAt,
		},
	})
}

type updateProfileReq struct {
	DisplayName string `json:"display_name" binding:"max=64"`
}

// UpdateProfile changes the operator's display name.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		op := middleware.CurrentOperator(c)
		if op == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
			return
		}

		op.DisplayName = req.DisplayName
		if err := db.Save(op).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed")
			return
		}

		util.Success(c, util.Response{"message": "profile updated"})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password and stores a new hash.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		op := middleware.CurrentOperator(c)
		if op == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
			return
		}

		if !util.CheckPassword(req.OldPassword, op.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "wrong password")
			return
		}
		if !util.IsStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 chars with upper, lower and digit")
			return
		}

		hash, err := util.HashPassword(req.NewPassword)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "password hashing failed")
			return
		}

		op.PasswordHash = hash
		if err := db.Save(op).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed")
			return
		}

		util.Success(c, util.Response{"message": "password changed"})
	}
}
