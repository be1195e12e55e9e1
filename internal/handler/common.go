package handler

import (
	"errors"
	"net/http"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
)

// storeError maps store failures onto the response envelope. Transport
// failures are fatal to the current operation and surfaced as-is; nothing
// is retried.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "not found")
	case errors.Is(err, store.ErrReferentialConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, "category still has products assigned and cannot be deleted")
	default:
		util.Error(c, http.StatusBadGateway, util.CodeStoreErr, "store operation failed")
	}
}
