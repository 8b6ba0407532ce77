package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notify_hub/internal/config"
	"notify_hub/internal/domain"
	"notify_hub/internal/http/dto"
	"notify_hub/internal/http/resp"
	"notify_hub/internal/model"
	"notify_hub/internal/queue"
	"notify_hub/internal/repository"
	"notify_hub/internal/service/notify"
)

type Handler struct {
	cfg *config.Config
	svc *notify.Service
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, log: logger, pub: publisher}
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	created, delivered, err := h.svc.CreateAndDeliver(c.Request.Context(), notify.CreateRequest{
		ReceiverID: req.ReceiverID,
		Type:       req.Type,
		Payload:    req.Payload,
		AppID:      req.AppID,
		SenderID:   req.SenderID,
		Channel:    req.Channel,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
			return
		}
		h.log.Error("create notification failed",
			zap.String("receiver_id", req.ReceiverID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, dto.CreateNotificationResponse{
		Success:      true,
		Notification: created,
		Delivered:    delivered,
	})
}

// PublishNotification queues the create request instead of running it
// inline; the rabbitmq consumer feeds it through the same delivery path.
func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := domain.ValidateCreate(req.ReceiverID, req.Type); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "notification"
	}
	routingKey := prefix + "." + req.Type
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish notification failed",
			zap.String("receiver_id", req.ReceiverID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

func (h *Handler) ListNotifications(c *gin.Context) {
	receiverID := c.Param("id")
	appID := c.Query("appId")
	if appID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrAppIDRequired.Error()})
		return
	}

	q := repository.ListQuery{
		ReceiverID: receiverID,
		AppID:      &appID,
		UnreadOnly: c.Query("unreadOnly") == "true",
		Type:       c.Query("type"),
		Channel:    c.Query("channel"),
		Limit:      h.cfg.DefaultPageSize,
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if q.Limit > h.cfg.MaxPageSize {
		q.Limit = h.cfg.MaxPageSize
	}
	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.Skip = n
		}
	}

	overview, err := h.svc.Overview(c.Request.Context(), q)
	if err != nil {
		h.log.Error("list notifications failed", zap.String("receiver_id", receiverID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list notifications"})
		return
	}

	notifications := overview.Notifications
	if notifications == nil {
		notifications = []model.Notification{}
	}
	c.JSON(http.StatusOK, dto.ListNotificationsResponse{
		Notifications: notifications,
		Total:         overview.Total,
		UnreadCount:   overview.UnreadCount,
		IsOnline:      overview.IsOnline,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	notification, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "notification not found"})
			return
		}
		h.log.Error("mark read failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Success: true, Notification: notification})
}

// MarkAllRead reads the receiver id from the same :id segment the other
// PATCH route uses; Gin keeps one param name per position in a method tree.
func (h *Handler) MarkAllRead(c *gin.Context) {
	receiverID := c.Param("id")
	appID := c.Query("appId")
	if appID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrAppIDRequired.Error()})
		return
	}

	modified, err := h.svc.MarkAllRead(c.Request.Context(), repository.MarkAllReadQuery{
		ReceiverID: receiverID,
		AppID:      &appID,
		Type:       c.Query("type"),
		Channel:    c.Query("channel"),
	})
	if err != nil {
		h.log.Error("mark all read failed", zap.String("receiver_id", receiverID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Success: true, ModifiedCount: modified})
}
