package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lailatuandayhotro-prog/sharebill/database"
	"github.com/lailatuandayhotro-prog/sharebill/models"
	"github.com/lailatuandayhotro-prog/sharebill/services"
	"github.com/lailatuandayhotro-prog/sharebill/split"
	"github.com/lailatuandayhotro-prog/sharebill/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// POST /api/groups/:id/expenses
func CreateExpense(c *gin.Context) {
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

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	amount := split.ParseGroupedDigits(req.Amount)
	if amount <= 0 {
		utils.BadRequest(c, "Amount must be greater than zero")
		return
	}

	payerID := userID
	if req.PayerID != "" {
		payerID, err = uuid.Parse(req.PayerID)
		if err != nil {
			utils.BadRequest(c, "Invalid payer ID")
			return
		}
	}
	if !isMember(groupID, payerID) {
		utils.BadRequest(c, "Payer must be a member of this group")
		return
	}

	draft, err := buildDraft(float64(amount), payerID, req.MemberIDs, req.Guests)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result, err := split.ComputeShares(draft)
	if err != nil {
		utils.BadRequest(c, "Select at least one member or guest")
		return
	}

	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.ExpenseDate); err == nil {
			expenseDate = parsed
		}
	}

	expense := models.Expense{
		GroupID:        groupID,
		PaidBy:         payerID,
		Description:    req.Description,
		Amount:         float64(amount),
		SharePerEntity: result.SharePerEntity,
		ExpenseDate:    expenseDate,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to create expense")
		return
	}

	participants, err := persistLedger(database.DB, expense, result.Shares, draft.Guests)
	if err != nil {
		// Compensating delete so we never keep an expense without its ledger
		database.DB.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseParticipant{})
		database.DB.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseGuest{})
		database.DB.Delete(&expense)
		utils.InternalError(c, "Failed to save expense participants")
		return
	}

	// Log activity
	var payer models.User
	database.DB.First(&payer, payerID)
	var group models.Group
	database.DB.First(&group, groupID)

	database.DB.Create(&models.Activity{
		GroupID:     groupID,
		UserID:      userID,
		Type:        "expense_added",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s added \"%s\" (%sđ)", payer.Name, expense.Description, split.FormatAmount(expense.Amount)),
	})

	// Send notifications asynchronously
	go services.GetNotificationService().NotifyExpenseAdded(expense, participants, payer, group)

	invalidateBalanceCache(groupID, expense.ExpenseDate)

	response := buildExpenseResponse(expense.ID)
	utils.SuccessResponse(c, http.StatusCreated, "Expense added", response)
}

// GET /api/groups/:id/expenses?month=YYYY-MM
func GetGroupExpenses(c *gin.Context) {
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

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	query := database.DB.Where("group_id = ?", groupID)
	if month := c.Query("month"); month != "" {
		if from, err := time.Parse("2006-01", month); err == nil {
			query = query.Where("expense_date >= ? AND expense_date < ?", from, from.AddDate(0, 1, 0))
		}
	}

	var expenses []models.Expense
	query.Order("expense_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses)

	var responses []models.ExpenseResponse
	for _, e := range expenses {
		responses = append(responses, buildExpenseResponse(e.ID))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/expenses/:id
func GetExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", buildExpenseResponse(expenseID))
}

// PUT /api/expenses/:id
func UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.PayerID != "" {
		payerID, err := uuid.Parse(req.PayerID)
		if err != nil {
			utils.BadRequest(c, "Invalid payer ID")
			return
		}
		if !isMember(expense.GroupID, payerID) {
			utils.BadRequest(c, "Payer must be a member of this group")
			return
		}
	}

	// Stage everything and validate the recompute before anything is
	// written, so a rejected edit leaves the stored expense untouched.
	updates, draft, err := stageExpenseUpdate(expense, req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var shares []split.Share
	if draft != nil {
		result, err := split.ComputeShares(*draft)
		if err != nil {
			utils.BadRequest(c, "Select at least one member or guest")
			return
		}
		updates["share_per_entity"] = result.SharePerEntity

		var previousRows []models.ExpenseParticipant
		database.DB.Where("expense_id = ?", expenseID).Order("created_at ASC").Find(&previousRows)
		shares = split.PreservePaidFlags(result.Shares, toShares(previousRows))
	}

	previousDate := expense.ExpenseDate

	database.DB.Model(&expense).Updates(updates)
	database.DB.First(&expense, expenseID)

	if draft != nil {
		// Replace the ledger atomically so a failed insert cannot leave a
		// half-written participant list behind.
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseParticipant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseGuest{}).Error; err != nil {
				return err
			}
			_, err := persistLedger(tx, expense, shares, draft.Guests)
			return err
		})
		if err != nil {
			utils.InternalError(c, "Failed to save expense participants")
			return
		}
	}

	// Log activity
	var editor models.User
	database.DB.First(&editor, userID)

	database.DB.Create(&models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Type:        "expense_updated",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s updated \"%s\"", editor.Name, expense.Description),
	})

	invalidateBalanceCache(expense.GroupID, expense.ExpenseDate)
	if !sameMonth(previousDate, expense.ExpenseDate) {
		// The expense moved to another month; the old month's summaries
		// are stale too
		invalidateBalanceCache(expense.GroupID, previousDate)
	}

	response := buildExpenseResponse(expense.ID)
	utils.SuccessResponse(c, http.StatusOK, "Expense updated", response)
}

// DELETE /api/expenses/:id
func DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	// Log before deleting
	var deleter models.User
	database.DB.First(&deleter, userID)

	database.DB.Create(&models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Type:        "expense_deleted",
		Description: fmt.Sprintf("%s deleted \"%s\" (%sđ)", deleter.Name, expense.Description, split.FormatAmount(expense.Amount)),
	})

	// Delete ledger rows, guests and the expense itself
	database.DB.Where("expense_id = ?", expenseID).Delete(&models.ExpenseParticipant{})
	database.DB.Where("expense_id = ?", expenseID).Delete(&models.ExpenseGuest{})
	database.DB.Delete(&expense)

	invalidateBalanceCache(expense.GroupID, expense.ExpenseDate)

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// stageExpenseUpdate validates an update request against the stored expense
// and returns the staged column updates plus, when the amount or participant
// draft changed, the draft to recompute the ledger from. Nothing is persisted
// here.
func stageExpenseUpdate(expense models.Expense, req models.UpdateExpenseRequest) (map[string]interface{}, *split.Draft, error) {
	updates := map[string]interface{}{}

	if req.Description != "" {
		updates["description"] = req.Description
	}

	amount := expense.Amount
	if req.Amount != "" {
		parsed := split.ParseGroupedDigits(req.Amount)
		if parsed <= 0 {
			return nil, nil, fmt.Errorf("amount must be greater than zero")
		}
		amount = float64(parsed)
		updates["amount"] = amount
	}

	if req.ExpenseDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.ExpenseDate); err == nil {
			updates["expense_date"] = parsed
		}
	}

	payerID := expense.PaidBy
	if req.PayerID != "" {
		parsed, err := uuid.Parse(req.PayerID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid payer ID: %s", req.PayerID)
		}
		payerID = parsed
		updates["paid_by"] = payerID
	}

	// Metadata-only edits keep the existing ledger
	if req.MemberIDs == nil && req.Guests == nil && req.Amount == "" {
		return updates, nil, nil
	}

	draft, err := buildDraft(amount, payerID, req.MemberIDs, req.Guests)
	if err != nil {
		return nil, nil, err
	}
	return updates, &draft, nil
}

// Convert request member/guest inputs into a split draft. Repeated member
// IDs count once, first occurrence wins the ordering.
func buildDraft(amount float64, payerID uuid.UUID, memberInputs []string, guestInputs []models.GuestInput) (split.Draft, error) {
	draft := split.Draft{
		TotalAmount: amount,
		PayerID:     payerID,
	}

	seen := make(map[uuid.UUID]bool, len(memberInputs))
	for _, raw := range memberInputs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return split.Draft{}, fmt.Errorf("invalid member ID: %s", raw)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		draft.MemberIDs = append(draft.MemberIDs, id)
	}

	for _, g := range guestInputs {
		guest := split.Guest{Name: g.Name}
		if g.ResponsibleMemberID != "" {
			sponsorID, err := uuid.Parse(g.ResponsibleMemberID)
			if err != nil {
				return split.Draft{}, fmt.Errorf("invalid responsible member ID: %s", g.ResponsibleMemberID)
			}
			guest.ResponsibleMemberID = &sponsorID
		}
		draft.Guests = append(draft.Guests, guest)
	}

	return draft, nil
}

// Persist computed shares and the expense's guest list
func persistLedger(db *gorm.DB, expense models.Expense, shares []split.Share, guests []split.Guest) ([]models.ExpenseParticipant, error) {
	var participants []models.ExpenseParticipant

	for _, s := range shares {
		row := models.ExpenseParticipant{
			ExpenseID: expense.ID,
			GuestName: s.GuestName,
			Amount:    s.Amount,
			IsPaid:    s.IsPaid,
			IsPayer:   s.IsPayer,
		}
		if s.MemberID != uuid.Nil {
			memberID := s.MemberID
			row.UserID = &memberID
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}
		participants = append(participants, row)
	}

	for _, g := range guests {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		guest := models.ExpenseGuest{
			ExpenseID:           expense.ID,
			Name:                g.Name,
			ResponsibleMemberID: g.ResponsibleMemberID,
		}
		if err := db.Create(&guest).Error; err != nil {
			return nil, err
		}
	}

	return participants, nil
}

// Convert persisted rows back to split shares for paid-flag reconciliation
func toShares(rows []models.ExpenseParticipant) []split.Share {
	shares := make([]split.Share, 0, len(rows))
	for _, r := range rows {
		s := split.Share{
			GuestName: r.GuestName,
			Amount:    r.Amount,
			IsPaid:    r.IsPaid,
			IsPayer:   r.IsPayer,
		}
		if r.UserID != nil {
			s.MemberID = *r.UserID
		}
		shares = append(shares, s)
	}
	return shares
}

// Build expense response with payer name, ledger rows and guest list
func buildExpenseResponse(expenseID uuid.UUID) models.ExpenseResponse {
	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		return models.ExpenseResponse{}
	}

	var payer models.User
	database.DB.First(&payer, expense.PaidBy)

	var rows []models.ExpenseParticipant
	database.DB.Where("expense_id = ?", expenseID).Order("created_at ASC").Find(&rows)

	var guests []models.ExpenseGuest
	database.DB.Where("expense_id = ?", expenseID).Find(&guests)

	var participants []models.ParticipantResponse
	for _, r := range rows {
		pr := models.ParticipantResponse{
			ID:            r.ID,
			UserID:        r.UserID,
			GuestName:     r.GuestName,
			Amount:        r.Amount,
			AmountDisplay: split.FormatAmount(r.Amount),
			IsPaid:        r.IsPaid,
			IsPayer:       r.IsPayer,
		}
		if r.UserID != nil {
			var user models.User
			database.DB.First(&user, *r.UserID)
			pr.UserName = user.Name
		}
		participants = append(participants, pr)
	}

	return models.ExpenseResponse{
		ID:             expense.ID,
		GroupID:        expense.GroupID,
		PaidBy:         expense.PaidBy,
		PayerName:      payer.Name,
		Description:    expense.Description,
		Amount:         expense.Amount,
		AmountDisplay:  split.FormatAmount(expense.Amount),
		SharePerEntity: expense.SharePerEntity,
		ExpenseDate:    expense.ExpenseDate,
		Participants:   participants,
		Guests:         guests,
		CreatedAt:      expense.CreatedAt,
	}
}
