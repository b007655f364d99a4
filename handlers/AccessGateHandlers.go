package handlers

import (
	"net/http"
	"os"

	"buildquote/models"

	"github.com/gin-gonic/gin"
)

// defaultAccessCode is the shared early-access code. The gate is a soft
// doorman for the beta, not an authentication layer; there are no
// accounts and nothing behind it is sensitive.
const defaultAccessCode = "build2025"

// accessCode resolves the expected code, overridable per deployment.
func accessCode() string {
	if code := os.Getenv("ACCESS_CODE"); code != "" {
		return code
	}
	return defaultAccessCode
}

// gateEnabled reports whether the gate is on. It defaults on and turns
// off only with an explicit ACCESS_GATE_ENABLED=false.
func gateEnabled() bool {
	return os.Getenv("ACCESS_GATE_ENABLED") != "false"
}

// AccessStatus godoc
// @Summary Report whether the access gate is enabled
// @Tags access
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/access/status [get]
func AccessStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"enabled": gateEnabled()})
	}
}

// VerifyAccess godoc
// @Summary Verify the early-access code
// @Description Checks the shared access code and reports granted true or false. Always responds 200; a wrong code is not an error.
// @Tags access
// @Accept json
// @Produce json
// @Param request body models.VerifyAccessRequest true "Access code"
// @Success 200 {object} models.VerifyAccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/access/verify [post]
func VerifyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyAccessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.VerifyAccessResponse{
			Granted: !gateEnabled() || req.Code == accessCode(),
		})
	}
}
