package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/report"
	"timesheet-dashboard/internal/service"
)

// maxPendingListed caps the /pending reply; Telegram messages are limited in size.
const maxPendingListed = 20

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(ctx, message)
	case "help":
		h.sendHelpMessage(message)
	case "pending":
		h.showPending(ctx, message)
	case "approve":
		h.reviewCommand(ctx, message, args, models.StatusApproved)
	case "reject", "disapprove":
		h.reviewCommand(ctx, message, args, models.StatusDisapproved)
	case "week":
		h.showWeek(ctx, message)
	case "top":
		h.showTopPerformers(ctx, message)
	case "stats":
		h.showStats(ctx, message)
	case "users":
		h.showAllUsers(ctx, message)
	case "setrole":
		h.setUserRole(ctx, message, args)
	case "link":
		h.linkChat(ctx, message, args)
	default:
		h.reply(message.Chat.ID, "❌ Unknown command. Use /help to see the list of commands.")
	}
}

func (h *Handler) sendStartMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := h.userService.GetByTelegramChat(ctx, chatID)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.replyError(chatID, err)
			return
		}
		h.reply(chatID, fmt.Sprintf("👋 Hi! Your chat ID is %d.\nAsk an admin to link it to your dashboard account.", chatID))
		return
	}

	h.reply(chatID, fmt.Sprintf("👋 Hi, %s! You are signed in as %s.\nUse /help to see the list of commands.", user.DisplayName, user.Role))
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Commands:

/pending - sessions waiting for your review
/approve <session id> [comment] - approve a session
/reject <session id> [comment] - disapprove a session
/week - team summary for the current week
/top - top performers of the current week
/stats - users per role (admins)
/users - all users (admins)
/setrole <user id> <admin|manager|employee> - change a role (admins)
/link <user id> <chat id> - link a Telegram chat to a user (admins)`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) showPending(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	pending, err := h.timesheetService.Pending(ctx, user)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	if len(pending) == 0 {
		h.reply(chatID, "✅ Nothing to review.")
		return
	}

	h.reply(chatID, fmt.Sprintf("🕒 %d sessions waiting for review:", len(pending)))

	for i, item := range pending {
		if i == maxPendingListed {
			h.reply(chatID, fmt.Sprintf("… and %d more. Review them on the dashboard.", len(pending)-maxPendingListed))
			break
		}

		text := fmt.Sprintf("%s · %s · %s\nProductivity %d%% · %s\nID: %s",
			item.OwnerName, item.Session.DateKey(), item.Session.Duration(),
			item.Metrics.SessionProductivity, item.Metrics.PerformanceRating, item.Session.ID)

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callbackApprove+item.Session.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callbackReject+item.Session.ID),
			),
		)
		h.send(msg)
	}
}

func (h *Handler) reviewCommand(ctx context.Context, message *tgbotapi.Message, args string, status models.SessionStatus) {
	chatID := message.Chat.ID

	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.reply(chatID, fmt.Sprintf("❌ Usage: /%s <session id> [comment]", message.Command()))
		return
	}

	comment := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(args), parts[0]))
	h.review(ctx, chatID, parts[0], status, comment)
}

func (h *Handler) review(ctx context.Context, chatID int64, sessionID string, status models.SessionStatus, comment string) {
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	session, err := h.timesheetService.Review(ctx, user, sessionID, status, comment)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Session of %s (%s) marked %s.", session.DateKey(), session.Duration(), session.Status))
}

func (h *Handler) showWeek(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	overview, err := h.dashboardService.Overview(ctx, user, h.clock(), h.config.WeekStartsOn, h.config.TopPerformersLimit)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("📅 Week %s to %s",
		models.DateKey(overview.Week.Start), models.DateKey(overview.Week.End)))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Sessions: %d (pending %d, approved %d, disapproved %d)",
		overview.Summary.TotalSessions, overview.Summary.PendingCount,
		overview.Summary.ApprovedCount, overview.Summary.DisapprovedCount))
	lines = append(lines, fmt.Sprintf("Worked: %s, active %s, productivity %d%%",
		report.FormatMinutes(overview.Summary.TotalMinutes), report.FormatMinutes(overview.Summary.ActiveMinutes),
		overview.Summary.ProductivityRate))

	if len(overview.Users) > 0 {
		lines = append(lines, "")
		for _, u := range overview.Users {
			lines = append(lines, fmt.Sprintf("👤 %s: %s, %d%%, %d pending",
				u.DisplayName, report.FormatMinutes(u.Summary.TotalMinutes),
				u.Summary.ProductivityRate, u.Summary.PendingCount))
		}
	}

	h.reply(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) showTopPerformers(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	overview, err := h.dashboardService.Overview(ctx, user, h.clock(), h.config.WeekStartsOn, h.config.TopPerformersLimit)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	if len(overview.TopPerformers) == 0 {
		h.reply(chatID, "📭 No sessions recorded this week yet.")
		return
	}

	lines := []string{"🏆 Top performers this week:", ""}
	for _, r := range overview.TopPerformers {
		lines = append(lines, fmt.Sprintf("%d. %s: %d%% over %.1fh",
			r.Rank, r.DisplayName, r.Summary.ProductivityRate, r.TotalHours))
	}

	h.reply(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.reply(chatID, "❌ "+err.Error())
	case errors.Is(err, service.ErrForbidden):
		h.reply(chatID, "❌ Access denied: "+strings.TrimPrefix(err.Error(), service.ErrForbidden.Error()+": "))
	case errors.Is(err, service.ErrInvalidInput):
		h.reply(chatID, "❌ "+err.Error())
	default:
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Command failed")
		h.reply(chatID, "❌ Something went wrong, please try again later.")
	}
}
