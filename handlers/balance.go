package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lailatuandayhotro-prog/sharebill/database"
	"github.com/lailatuandayhotro-prog/sharebill/models"
	"github.com/lailatuandayhotro-prog/sharebill/split"
	"github.com/lailatuandayhotro-prog/sharebill/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const balanceCacheTTL = 5 * time.Minute

// GET /api/balances?month=YYYY-MM
//
// Monthly position of the current user across all their groups: what they
// still owe payers of other expenses, and what unpaid shares others owe them.
func GetMonthlyBalances(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	month := c.DefaultQuery("month", time.Now().Format("2006-01"))
	from, err := time.Parse("2006-01", month)
	if err != nil {
		utils.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	cacheKey := balanceCacheKey(userID, month)
	if database.Redis != nil {
		if cached, err := database.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var summary models.MonthlyBalanceSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				utils.SuccessResponse(c, http.StatusOK, "", summary)
				return
			}
		}
	}

	var memberships []models.GroupMember
	database.DB.Where("user_id = ?", userID).Find(&memberships)

	var groupIDs []uuid.UUID
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var expenses []models.Expense
	if len(groupIDs) > 0 {
		database.DB.Where("group_id IN ? AND expense_date >= ? AND expense_date < ?",
			groupIDs, from, from.AddDate(0, 1, 0)).Find(&expenses)
	}

	var rows []models.ExpenseParticipant
	if len(expenses) > 0 {
		var expenseIDs []uuid.UUID
		for _, e := range expenses {
			expenseIDs = append(expenseIDs, e.ID)
		}
		database.DB.Where("expense_id IN ?", expenseIDs).Order("created_at ASC").Find(&rows)
	}

	summary := summarizeMonth(userID, expenses, rows)
	summary.Month = month
	summary.ToPayDisplay = split.FormatAmount(summary.ToPay)
	summary.ToCollectDisplay = split.FormatAmount(summary.ToCollect)

	for i := range summary.Friends {
		var user models.User
		if err := database.DB.First(&user, summary.Friends[i].UserID).Error; err == nil {
			summary.Friends[i].Name = user.Name
			summary.Friends[i].AvatarURL = user.AvatarURL
		}
	}

	if database.Redis != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			database.Redis.Set(context.Background(), cacheKey, encoded, balanceCacheTTL)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GET /api/groups/:id/balances
func GetGroupBalances(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return
	}

	if !isMember(groupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	var group models.Group
	database.DB.First(&group, groupID)

	var expenses []models.Expense
	database.DB.Where("group_id = ?", groupID).Find(&expenses)

	var rows []models.ExpenseParticipant
	if len(expenses) > 0 {
		var expenseIDs []uuid.UUID
		for _, e := range expenses {
			expenseIDs = append(expenseIDs, e.ID)
		}
		database.DB.Where("expense_id IN ?", expenseIDs).Order("created_at ASC").Find(&rows)
	}

	balances := summarizeGroup(expenses, rows)
	for i := range balances {
		var user models.User
		if err := database.DB.First(&user, balances[i].UserID).Error; err == nil {
			balances[i].Name = user.Name
		}
	}

	var totalSpent float64
	for _, e := range expenses {
		totalSpent += e.Amount
	}

	summary := models.GroupBalanceSummary{
		GroupID:    groupID,
		GroupName:  group.Name,
		Balances:   balances,
		TotalSpent: totalSpent,
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// summarizeMonth aggregates unpaid ledger rows into the user's to-pay and
// to-collect totals. Unpaid guest rows count toward the payer's to-collect
// total but never show up as a friend (guests have no account).
func summarizeMonth(userID uuid.UUID, expenses []models.Expense, rows []models.ExpenseParticipant) models.MonthlyBalanceSummary {
	payerOf := make(map[uuid.UUID]uuid.UUID, len(expenses))
	for _, e := range expenses {
		payerOf[e.ID] = e.PaidBy
	}

	var summary models.MonthlyBalanceSummary
	friendIndex := make(map[uuid.UUID]int)
	friend := func(id uuid.UUID) *models.FriendBalance {
		if i, ok := friendIndex[id]; ok {
			return &summary.Friends[i]
		}
		summary.Friends = append(summary.Friends, models.FriendBalance{UserID: id})
		friendIndex[id] = len(summary.Friends) - 1
		return &summary.Friends[len(summary.Friends)-1]
	}

	for _, r := range rows {
		if r.IsPayer || r.IsPaid {
			continue
		}
		payerID, ok := payerOf[r.ExpenseID]
		if !ok {
			continue
		}

		if r.UserID != nil && *r.UserID == userID && payerID != userID {
			summary.ToPay += r.Amount
			friend(payerID).ToPay += r.Amount
			continue
		}

		if payerID == userID {
			summary.ToCollect += r.Amount
			if r.UserID != nil {
				friend(*r.UserID).ToCollect += r.Amount
			}
		}
	}

	return summary
}

// summarizeGroup computes every member's unpaid position within one group.
func summarizeGroup(expenses []models.Expense, rows []models.ExpenseParticipant) []models.GroupBalance {
	payerOf := make(map[uuid.UUID]uuid.UUID, len(expenses))
	for _, e := range expenses {
		payerOf[e.ID] = e.PaidBy
	}

	var balances []models.GroupBalance
	index := make(map[uuid.UUID]int)
	entry := func(id uuid.UUID) *models.GroupBalance {
		if i, ok := index[id]; ok {
			return &balances[i]
		}
		balances = append(balances, models.GroupBalance{UserID: id})
		index[id] = len(balances) - 1
		return &balances[len(balances)-1]
	}

	for _, r := range rows {
		if r.IsPayer || r.IsPaid {
			continue
		}
		payerID, ok := payerOf[r.ExpenseID]
		if !ok {
			continue
		}

		entry(payerID).ToCollect += r.Amount
		if r.UserID != nil {
			entry(*r.UserID).ToPay += r.Amount
		}
	}

	return balances
}

func balanceCacheKey(userID uuid.UUID, month string) string {
	return "balance:" + userID.String() + ":" + month
}

// sameMonth reports whether two dates fall in the same cache month
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Drop cached summaries of every group member for the expense's month
func invalidateBalanceCache(groupID uuid.UUID, expenseDate time.Time) {
	if database.Redis == nil {
		return
	}

	month := expenseDate.Format("2006-01")

	var memberships []models.GroupMember
	database.DB.Where("group_id = ?", groupID).Find(&memberships)

	for _, m := range memberships {
		database.Redis.Del(context.Background(), balanceCacheKey(m.UserID, month))
	}
}
