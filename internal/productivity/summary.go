package productivity

import (
	"math"
	"sort"

	"timesheet-dashboard/internal/models"
)

// Summary aggregates any number of sessions.
type Summary struct {
	TotalSessions         int `json:"totalSessions"`
	TotalMinutes          int `json:"totalMinutes"`
	IdleMinutes           int `json:"idleMinutes"`
	ActiveMinutes         int `json:"activeMinutes"`
	ProductivityRate      int `json:"productivityRate"`
	PendingCount          int `json:"pendingCount"`
	ApprovedCount         int `json:"approvedCount"`
	DisapprovedCount      int `json:"disapprovedCount"`
	AverageSessionMinutes int `json:"averageSessionMinutes"`
}

// Summarize totals the sessions. ProductivityRate is computed from the
// aggregate minutes, not averaged over sessions.
//
// Sessions whose status is none of submitted, approved or disapproved are
// counted in the totals but in none of the status counters.
// TODO: confirm with product whether such sessions need an "unknown" bucket.
func Summarize(sessions []models.Session) Summary {
	var sum Summary
	for _, s := range sessions {
		total, idle := s.Minutes()

		sum.TotalSessions++
		sum.TotalMinutes += total
		sum.IdleMinutes += idle
		sum.ActiveMinutes += total - idle

		switch s.Status {
		case models.StatusSubmitted:
			sum.PendingCount++
		case models.StatusApproved:
			sum.ApprovedCount++
		case models.StatusDisapproved:
			sum.DisapprovedCount++
		}
	}

	sum.ProductivityRate = Percent(sum.ActiveMinutes, sum.TotalMinutes)
	if sum.TotalSessions > 0 {
		sum.AverageSessionMinutes = roundDiv(sum.TotalMinutes, sum.TotalSessions)
	}
	return sum
}

// RankedUser is one leaderboard entry.
type RankedUser struct {
	Rank        int         `json:"rank"`
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Role        models.Role `json:"role,omitempty"`
	TotalHours  float64     `json:"totalHours"`
	Summary     Summary     `json:"summary"`
}

// RankTopPerformers ranks users by aggregate productivity over their sessions.
// Ties are broken by total minutes (descending) and then by user id. Users
// without sessions are not ranked. A non-positive limit yields no entries.
func RankTopPerformers(sessions []models.Session, users []models.User, limit int) []RankedUser {
	if limit <= 0 || len(sessions) == 0 {
		return nil
	}

	directory := make(map[string]models.User, len(users))
	for _, u := range users {
		directory[u.ID] = u
	}

	byUser := GroupByUser(sessions)
	ranked := make([]RankedUser, 0, len(byUser))
	for userID, userSessions := range byUser {
		summary := Summarize(userSessions)
		entry := RankedUser{
			UserID:      userID,
			DisplayName: userID,
			TotalHours:  math.Round(float64(summary.TotalMinutes)/60*100) / 100,
			Summary:     summary,
		}
		if u, ok := directory[userID]; ok {
			entry.DisplayName = u.DisplayName
			entry.Role = u.Role
		}
		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Summary, ranked[j].Summary
		if a.ProductivityRate != b.ProductivityRate {
			return a.ProductivityRate > b.ProductivityRate
		}
		if a.TotalMinutes != b.TotalMinutes {
			return a.TotalMinutes > b.TotalMinutes
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// GroupByUser splits sessions by owner, keeping each user's sessions in input order.
func GroupByUser(sessions []models.Session) map[string][]models.Session {
	byUser := make(map[string][]models.Session)
	for _, s := range sessions {
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}
	return byUser
}
