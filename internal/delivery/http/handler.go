package http

import (
	"github.com/gin-gonic/gin"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/service"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/response"
)

type HTTPHandler struct {
	ticketService service.TicketService
	authService   service.DeviceAuthService
	logger        logger.Logger
}

func NewHTTPHandler(ticketService service.TicketService, authService service.DeviceAuthService, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		ticketService: ticketService,
		authService:   authService,
		logger:        logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/v1/devices/token", h.IssueDeviceToken)

	v1 := router.Group("/api/v1", DeviceAuth(h.authService, h.logger))
	ev := v1.Group("/events/:eventId/seasons/:seasonId")
	ev.GET("/tickets", h.ListTickets)
	ev.POST("/tickets/:ticketId/redeem", h.RedeemTicket)
	ev.POST("/tickets/:ticketId/invalidate", h.InvalidateTicket)
	ev.POST("/tickets/:ticketId/revert", h.RevertTicket)
	ev.POST("/bundles/:bundleId/redeem", h.RedeemBundle)
	ev.POST("/bundles/:bundleId/revert", h.RevertBundle)
}

type issueDeviceTokenRequest struct {
	DeviceID     string `json:"device_id" binding:"required"`
	Operator     string `json:"operator"`
	ProvisionKey string `json:"provision_key" binding:"required"`
}

func (h *HTTPHandler) IssueDeviceToken(c *gin.Context) {
	var req issueDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, "device_id and provision_key are required")
		return
	}

	out, err := h.authService.IssueDeviceToken(c.Request.Context(), req.DeviceID, req.Operator, req.ProvisionKey)
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func (h *HTTPHandler) ListTickets(c *gin.Context) {
	rows, err := h.ticketService.ListTickets(c.Request.Context(), scanContext(c))
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "delivery.http.ListTickets: %v", err)
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, rows)
}

func (h *HTTPHandler) RedeemTicket(c *gin.Context) {
	out, err := h.ticketService.Redeem(c.Request.Context(), scanContext(c), c.Param("ticketId"))
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func (h *HTTPHandler) InvalidateTicket(c *gin.Context) {
	out, err := h.ticketService.Invalidate(c.Request.Context(), scanContext(c), c.Param("ticketId"))
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func (h *HTTPHandler) RevertTicket(c *gin.Context) {
	out, err := h.ticketService.RevertToActive(c.Request.Context(), scanContext(c), c.Param("ticketId"))
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func (h *HTTPHandler) RedeemBundle(c *gin.Context) {
	out, err := h.ticketService.RedeemAll(c.Request.Context(), scanContext(c), c.Param("bundleId"))
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func (h *HTTPHandler) RevertBundle(c *gin.Context) {
	out, err := h.ticketService.RevertAll(c.Request.Context(), scanContext(c), c.Param("bundleId"))
	if err != nil {
		response.Error(c, mapError(err), err.Error())
		return
	}

	response.OK(c, out)
}

func scanContext(c *gin.Context) service.ScanContext {
	return service.ScanContext{
		EventID:  c.Param("eventId"),
		SeasonID: c.Param("seasonId"),
	}
}
