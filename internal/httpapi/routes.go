package httpapi

import (
	"net/http"

	"callsim/internal/rbac"

	"github.com/gin-gonic/gin"
)

// Register wires routes to handlers. protect guards /v1 and turns on role
// checks; nil leaves every route open.
func Register(r *gin.Engine, h Handlers, protect gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/v1/auth")
	{
		authGroup.POST("/token", h.IssueToken)
		authGroup.POST("/refresh", h.RefreshToken)
	}

	// Sub-groups copy v1's handlers when created, so protect goes on first.
	v1 := r.Group("/v1")
	if protect != nil {
		v1.Use(protect, rbac.RequireDevice())
	}
	read := v1.Group("")
	drive := v1.Group("")
	admin := v1.Group("")
	if protect != nil {
		read.Use(rbac.RequireAnyRole(rbac.RoleViewer, rbac.RoleOperator))
		drive.Use(rbac.RequireAnyRole(rbac.RoleOperator))
		admin.Use(rbac.RequireAnyRole())
	}

	read.GET("/contacts", h.ListContacts)
	read.GET("/contacts/:contact_id", h.GetContact)
	read.GET("/calls/state", h.CallState)
	read.GET("/logs", h.ListLogs)
	read.GET("/logs/summary", h.LogSummary)

	drive.POST("/calls/outgoing", h.StartOutgoing)
	drive.POST("/calls/incoming", h.SimulateIncoming)
	drive.POST("/calls/incoming/swipe", h.Swipe)
	drive.POST("/calls/end", h.EndCall)

	admin.DELETE("/logs", h.ClearLogs)
	admin.GET("/events", h.ListEvents)
}
