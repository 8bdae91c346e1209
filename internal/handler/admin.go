package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"timesheet-dashboard/internal/models"
)

// currentAdmin is currentUser for admin-only commands.
func (h *Handler) currentAdmin(ctx context.Context, chatID int64) *models.User {
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return nil
	}
	if !user.IsAdmin() {
		h.reply(chatID, "❌ Access denied. This command is for admins only.")
		return nil
	}
	return user
}

func (h *Handler) showAllUsers(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	admin := h.currentAdmin(ctx, chatID)
	if admin == nil {
		return
	}

	users, err := h.userService.ListUsers(ctx, admin)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	lines := []string{fmt.Sprintf("👥 Users (%d):", len(users)), ""}
	for _, u := range users {
		line := fmt.Sprintf("%s %s (%s)\nID: %s", roleIcon(u.Role), u.DisplayName, u.Email, u.ID)
		if u.TelegramChatID != nil {
			line += fmt.Sprintf(", chat %d", *u.TelegramChatID)
		}
		lines = append(lines, line)
	}

	h.reply(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) showStats(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if h.currentAdmin(ctx, chatID) == nil {
		return
	}

	counts, err := h.userService.RoleCounts(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	h.reply(chatID, fmt.Sprintf("📊 Users: %d\n👑 Admins: %d\n🧭 Managers: %d\n👤 Employees: %d",
		total, counts[models.RoleAdmin], counts[models.RoleManager], counts[models.RoleEmployee]))
}

func (h *Handler) setUserRole(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	admin := h.currentAdmin(ctx, chatID)
	if admin == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Usage: /setrole <user id> <role>\nRoles: admin, manager, employee")
		return
	}

	user, err := h.userService.AssignRole(ctx, admin, parts[0], models.Role(strings.ToLower(parts[1])))
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ %s is now %s.", user.DisplayName, user.Role))
}

func (h *Handler) linkChat(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if h.currentAdmin(ctx, chatID) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Usage: /link <user id> <chat id>")
		return
	}

	targetChatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(chatID, "❌ The chat ID must be a number.")
		return
	}

	if err := h.userService.LinkTelegram(ctx, parts[0], targetChatID); err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Chat %d linked to user %s.", targetChatID, parts[0]))
}

func roleIcon(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "👑"
	case models.RoleManager:
		return "🧭"
	default:
		return "👤"
	}
}
