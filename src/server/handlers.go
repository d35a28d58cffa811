package server

import (
	"net/http"

	"windfarm-observer/src/auth"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getSummary(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", s.Dashboard.Facade.Settings.DefaultRange)
	summary, err := s.Dashboard.MetricsSummary(c.Request.Context(), rangeKey)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getMetricValue(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", s.Dashboard.Facade.Settings.DefaultRange)
	value, err := s.Dashboard.MetricValue(c.Request.Context(), rangeKey, c.Param("metric"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

// -----------------------------------------------------------------------------
// Analysis
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getPowerCurve(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", s.Dashboard.Facade.Settings.CurveRange)
	data, err := s.Dashboard.PowerCurve(c.Request.Context(), rangeKey)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getAEP(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AEP endpoint reserved for engineer/admin roles."})
}

// -----------------------------------------------------------------------------
// Turbines
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getTurbineStatus(c *gin.Context) {
	limit, err := queryInt(c, "limit", s.Dashboard.Facade.Settings.DefaultTurbineLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.writeError(c, err)
		return
	}

	page, err := s.Dashboard.TurbineStatus(c.Request.Context(), limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getGeospatial(c *gin.Context) {
	points, err := s.Dashboard.GeospatialTurbines(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turbines": points})
}

// -----------------------------------------------------------------------------
// Auth
// -----------------------------------------------------------------------------

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) postLogin(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "username and password are required"})
		return
	}

	user, err := s.Auth.Authenticate(body.Username, body.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		s.writeError(c, err)
		return
	}
	token, expires, err := s.Auth.IssueToken(user)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.Logger.Info("User %s logged in", user.Username)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "bearer",
		"expiresAt":   expires,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getMe(c *gin.Context) {
	claims := c.MustGet(claimsKey).(*auth.Claims)
	c.JSON(http.StatusOK, gin.H{
		"username": claims.Subject,
		"role":     claims.Role,
	})
}
