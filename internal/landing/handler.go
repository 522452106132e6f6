package landing

import (
	"errors"
	"io"
	"net/http"

	"storytrain_landing/internal/page"
	"storytrain_landing/internal/scrolldepth"
	"storytrain_landing/internal/tracking"
	"storytrain_landing/platform/apperr"
	"storytrain_landing/platform/httpkit"
	"storytrain_landing/platform/logger"
	"storytrain_landing/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidRequest   = "invalid request body"
	errValidation       = "validation error"
	errInvalidSessionID = "invalid session ID"
)

// Handler exposes page sessions to the shell.
type Handler struct {
	registry *page.Registry
	val      *validator.Validator
	log      *logger.Logger
}

// NewHandler creates a new landing handler.
func NewHandler(registry *page.Registry, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{registry: registry, val: val, log: log}
}

// HandleCreateSession starts a page session and records the page view.
// POST /api/v1/sessions
func (h *Handler) HandleCreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !h.bindOptional(c, &req) {
		return
	}

	session := h.registry.Create(req.Path)
	httpkit.JSON(c, http.StatusCreated, CreateSessionResponse{SessionID: session.ID().String()})
}

// HandleScroll forwards a viewport scroll notification.
// POST /api/v1/sessions/:sessionId/scroll
func (h *Handler) HandleScroll(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ScrollRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	pos := scrolldepth.Position{
		ScrollTop:      req.ScrollTop,
		ViewportHeight: req.ViewportHeight,
		DocumentHeight: req.DocumentHeight,
	}
	fired := session.Scroll(pos)
	if fired == nil {
		fired = []int{}
	}
	httpkit.OK(c, ScrollResponse{Depth: pos.Depth(), Fired: fired})
}

// HandleClick records a navigation button click and returns the section to
// scroll to, if any.
// POST /api/v1/sessions/:sessionId/clicks
func (h *Handler) HandleClick(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ClickRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	target, err := session.Click(req.ElementID, nil)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, ClickResponse{ScrollTo: target})
}

// HandleUpdateDraft applies keystrokes to the form draft.
// PATCH /api/v1/sessions/:sessionId/draft
func (h *Handler) HandleUpdateDraft(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req DraftRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	form := session.Form()
	draft := form.Update(req.patch())
	httpkit.OK(c, DraftResponse{Draft: draft, State: form.State().String()})
}

// HandleSubmitLead submits the form draft, optionally updated by the body.
// POST /api/v1/sessions/:sessionId/lead
func (h *Handler) HandleSubmitLead(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req DraftRequest
	if !h.bindOptional(c, &req) {
		return
	}

	sub, err := session.Submit(c.Request.Context(), req.patch())
	if httpkit.HandleError(c, err) {
		return
	}

	// The response carries the notification; drop the queued copy.
	session.Notifications().Drain()

	form := session.Form()
	resp := LeadResponse{
		Outcome:      sub.Outcome,
		Notification: sub.Notification,
		Draft:        form.Draft(),
		State:        form.State().String(),
	}
	httpkit.JSON(c, submissionStatus(sub.Err), resp)
}

// HandleNotifications drains the notifications queued for the session.
// GET /api/v1/sessions/:sessionId/notifications
func (h *Handler) HandleNotifications(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, NotificationsResponse{Notifications: session.Notifications().Drain()})
}

// HandleCloseSession tears down the session.
// DELETE /api/v1/sessions/:sessionId
func (h *Handler) HandleCloseSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.registry.Remove(id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func submissionStatus(err error) int {
	if err == nil {
		return http.StatusCreated
	}
	switch apperr.GetKind(err) {
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindInternal, apperr.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) sessionID(c *gin.Context) (tracking.SessionID, bool) {
	id, ok := tracking.ParseSessionID(c.Param("sessionId"))
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, errInvalidSessionID, nil)
		return "", false
	}
	return id, true
}

func (h *Handler) session(c *gin.Context) (*page.Session, bool) {
	id, ok := h.sessionID(c)
	if !ok {
		return nil, false
	}
	session, err := h.registry.Get(id)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return session, true
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, err.Error())
		return false
	}
	return h.validate(c, req)
}

// bindOptional accepts an empty body as the zero request.
func (h *Handler) bindOptional(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, err.Error())
		return false
	}
	return h.validate(c, req)
}

func (h *Handler) validate(c *gin.Context, req interface{}) bool {
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return false
	}
	return true
}
