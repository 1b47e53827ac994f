package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error kinds onto HTTP statuses. Anything
// unexpected is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var (
		verr *services.ValidationError
		cerr *services.ConflictError
		nerr *services.NotFoundError
		perr *services.PermissionError
	)
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, verr.Error())
	case errors.As(err, &cerr):
		utils.JSONError(c, http.StatusConflict, cerr.Error())
	case errors.As(err, &nerr):
		utils.JSONError(c, http.StatusNotFound, nerr.Error())
	case errors.As(err, &perr):
		if perr.Unauthenticated {
			utils.JSONError(c, http.StatusUnauthorized, perr.Error())
			return
		}
		utils.JSONError(c, http.StatusForbidden, perr.Error())
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondBindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
