package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/config"
	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
	"timesheet-dashboard/pkg/telegram"
)

// Callback data prefixes of the inline review buttons.
const (
	callbackApprove = "approve:"
	callbackReject  = "reject:"
)

type Handler struct {
	sender           telegram.Sender
	userService      *service.UserService
	timesheetService *service.TimesheetService
	dashboardService *service.DashboardService
	config           *config.DashboardConfig
	logger           *logrus.Entry
	clock            func() time.Time
}

func NewHandler(
	sender telegram.Sender,
	userService *service.UserService,
	timesheetService *service.TimesheetService,
	dashboardService *service.DashboardService,
	cfg *config.DashboardConfig,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		sender:           sender,
		userService:      userService,
		timesheetService: timesheetService,
		dashboardService: dashboardService,
		config:           cfg,
		logger:           logger.WithField("component", "telegram_handler"),
		clock:            time.Now,
	}
}

// HandleUpdates consumes updates until the channel is closed or ctx is done.
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.CallbackQuery != nil {
				h.handleCallbackQuery(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	fields := logrus.Fields{"chat_id": message.Chat.ID}
	if message.From != nil {
		fields["username"] = message.From.UserName
	}
	h.logger.WithFields(fields).Debug(message.Text)

	if !message.IsCommand() {
		h.reply(message.Chat.ID, "Send /help to see what I can do.")
		return
	}

	h.handleCommand(ctx, message)
}

// handleCallbackQuery processes the approve/reject buttons under /pending.
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Remove the buttons so a session is not reviewed twice from the same message
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	if _, err := h.sender.Request(editMsg); err != nil {
		h.logger.WithError(err).Debug("Failed to clear inline keyboard")
	}

	var status models.SessionStatus
	var sessionID string
	switch {
	case strings.HasPrefix(data, callbackApprove):
		status, sessionID = models.StatusApproved, strings.TrimPrefix(data, callbackApprove)
	case strings.HasPrefix(data, callbackReject):
		status, sessionID = models.StatusDisapproved, strings.TrimPrefix(data, callbackReject)
	default:
		h.logger.WithField("data", data).Warn("Unknown callback data")
	}

	if sessionID != "" {
		h.review(ctx, chatID, sessionID, status, "")
	}

	if _, err := h.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.WithError(err).Debug("Failed to answer callback")
	}
}

// currentUser resolves the dashboard user linked to the chat. It replies and
// returns nil when the chat is not linked.
func (h *Handler) currentUser(ctx context.Context, chatID int64) *models.User {
	user, err := h.userService.GetByTelegramChat(ctx, chatID)
	if errors.Is(err, service.ErrNotFound) {
		h.reply(chatID, "❌ This chat is not linked to a dashboard account. Send /start to get your chat ID.")
		return nil
	}
	if err != nil {
		h.replyError(chatID, err)
		return nil
	}
	return user
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", msg.ChatID).Error("Failed to send message")
	}
}
