package api

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, err := getUserRoleFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", userRole))
	}
}

// RequestMetrics counts requests by method and status and observes their
// duration per route.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		begin := time.Now()

		c.Next()

		m.GaugeRequests.Dec()
		status := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.CounterRequests.WithLabelValues(c.Request.Method, status).Inc()
		m.HistogramRequestDuration.WithLabelValues(route, c.Request.Method, status).Observe(time.Since(begin).Seconds())
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(begin).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error(c.Errors.String())
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Debug("request rejected")
		default:
			entry.Trace("request served")
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithServiceError maps service sentinels to HTTP statuses. Anything
// unknown is logged and reported as a 500.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrReportNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied),
		errors.Is(err, service.ErrWorkoutAccessDenied),
		errors.Is(err, service.ErrSessionAccessDenied),
		errors.Is(err, service.ErrReportAccessDenied),
		errors.Is(err, service.ErrStudentNotManaged):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProgramNotStarted),
		errors.Is(err, service.ErrProgramAlreadyStarted),
		errors.Is(err, service.ErrProgramNotActive),
		errors.Is(err, service.ErrStudentAlreadyAssigned),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidAnchor),
		errors.Is(err, service.ErrInvalidScheduledDays),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidRPE),
		errors.Is(err, service.ErrInvalidSessionInterval),
		errors.Is(err, service.ErrWorkoutNotInProgram),
		errors.Is(err, service.ErrStudentNotRole),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, service.ErrInvalidRole):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("%s %s: %s", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid user ID in token")
	}
	return id, nil
}

// Helper function to get User Role from context (used by handlers)
func getUserRoleFromContext(c *gin.Context) (domain.Role, error) {
	roleRaw, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleRaw.(domain.Role)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// mustUserID aborts with 401 and returns false when the caller is unknown.
func mustUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathObjectID parses an ObjectID path parameter, aborting with 400 on failure.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}
