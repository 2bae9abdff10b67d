package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"callsim/internal/audit"
	"callsim/internal/auth"
	"callsim/internal/calls"
	"callsim/internal/contacts"
	"callsim/internal/rbac"
	"callsim/internal/reporting"
	"callsim/internal/simulator"
	"callsim/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call the simulator, return JSON.
type Handlers struct {
	Sim     *simulator.Simulator
	Reports *reporting.Service
	Events  *audit.Service
	Auth    *auth.Manager
}

// --- Auth ---

type tokenRequest struct {
	DeviceID string `json:"device_id"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "auth disabled"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "device_id required"})
		return
	}
	if req.Role == "" {
		req.Role = rbac.DefaultRole
	}
	if !rbac.Valid(req.Role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "role must be viewer, operator or admin"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.DeviceID, req.Role)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h Handlers) RefreshToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "auth disabled"})
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}
	pair, err := h.Auth.Refresh(req.RefreshToken, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// --- Contacts ---

func (h Handlers) ListContacts(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
			return
		}
		page = n
	}
	list, err := h.Sim.Contacts(page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "contacts": list})
}

func (h Handlers) GetContact(c *gin.Context) {
	ct, err := h.Sim.Contact(c.Param("contact_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// --- Calls ---

type contactRequest struct {
	ContactID string `json:"contact_id"`
}

type swipeRequest struct {
	Displacement *float64 `json:"displacement"`
}

type endRequest struct {
	Missed bool `json:"missed"`
}

func (h Handlers) CallState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sim.State())
}

func (h Handlers) StartOutgoing(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ContactID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "contact_id required"})
		return
	}
	s, err := h.Sim.OnCallRequested(req.ContactID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// SimulateIncoming rings with the requested contact; an empty body picks a random one.
func (h Handlers) SimulateIncoming(c *gin.Context) {
	var req contactRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s, err := h.Sim.OnIncomingSimulated(req.ContactID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h Handlers) Swipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Displacement == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "displacement required"})
		return
	}
	decision, err := h.Sim.OnSwipeCompleted(*req.Displacement)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": decision, "state": h.Sim.State()})
}

func (h Handlers) EndCall(c *gin.Context) {
	var req endRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	entry, ok := h.Sim.OnEndPressed(req.Missed)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// --- Logs ---

func (h Handlers) ListLogs(c *gin.Context) {
	logs := h.Sim.Logs()
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "logs": logs})
}

func (h Handlers) ClearLogs(c *gin.Context) {
	h.Sim.OnClearLogsRequested()
	c.Status(http.StatusNoContent)
}

func (h Handlers) LogSummary(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	req := reporting.SummaryRequest{ContactID: c.Query("contact_id")}
	var err error
	if req.Range.From, err = parseTime(c.Query("from")); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
		return
	}
	if req.Range.To, err = parseTime(c.Query("to")); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
		return
	}
	out, err := h.Reports.Summary(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Events ---

func (h Handlers) ListEvents(c *gin.Context) {
	if h.Events == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "event trail disabled"})
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	events, err := h.Events.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// bindOptionalJSON decodes the body into obj. An empty body leaves obj zero;
// Content-Length is not consulted because chunked requests report -1.
func bindOptionalJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calls.ErrInvalidState):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, contacts.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrInvalidContact),
		errors.Is(err, contacts.ErrInvalidPage),
		errors.Is(err, reporting.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
