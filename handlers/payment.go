package handlers

import (
	"fmt"
	"net/http"

	"github.com/lailatuandayhotro-prog/sharebill/database"
	"github.com/lailatuandayhotro-prog/sharebill/models"
	"github.com/lailatuandayhotro-prog/sharebill/services"
	"github.com/lailatuandayhotro-prog/sharebill/split"
	"github.com/lailatuandayhotro-prog/sharebill/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PUT /api/expenses/:id/participants/:pid/paid
func MarkParticipantPaid(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}
	participantID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		utils.BadRequest(c, "Invalid participant ID")
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

	var participant models.ExpenseParticipant
	if err := database.DB.Where("id = ? AND expense_id = ?", participantID, expenseID).First(&participant).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}

	if participant.IsPayer {
		utils.BadRequest(c, "The payer's row cannot be marked")
		return
	}

	var req models.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	database.DB.Model(&participant).Update("is_paid", req.IsPaid)
	participant.IsPaid = req.IsPaid

	participantName := participant.GuestName
	if participant.UserID != nil {
		var user models.User
		database.DB.First(&user, *participant.UserID)
		participantName = user.Name
	}

	var marker models.User
	database.DB.First(&marker, userID)

	action := "unpaid"
	if req.IsPaid {
		action = "paid"
	}
	database.DB.Create(&models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Type:        "payment_marked",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s marked %s as %s for \"%s\" (%sđ)",
			marker.Name, participantName, action, expense.Description, split.FormatAmount(participant.Amount)),
	})

	if req.IsPaid {
		var payer models.User
		database.DB.First(&payer, expense.PaidBy)
		go services.GetNotificationService().NotifyPaymentMarked(participant, participantName, payer, expense)
	}

	invalidateBalanceCache(expense.GroupID, expense.ExpenseDate)

	utils.SuccessResponse(c, http.StatusOK, "Payment updated", participant)
}

// GET /api/expenses/:id/participants/:pid/qr
//
// Returns the VietQR image URL prompting this participant to transfer their
// owed share to the payer's bank account.
func GetParticipantQR(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}
	participantID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		utils.BadRequest(c, "Invalid participant ID")
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

	var participant models.ExpenseParticipant
	if err := database.DB.Where("id = ? AND expense_id = ?", participantID, expenseID).First(&participant).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}

	if participant.IsPayer {
		utils.BadRequest(c, "The payer has nothing to transfer")
		return
	}

	var payer models.User
	if err := database.DB.First(&payer, expense.PaidBy).Error; err != nil {
		utils.NotFound(c, "Payer not found")
		return
	}

	qrURL := services.BuildTransferQRURL(payer, participant.Amount, expense.Description)
	if qrURL == "" {
		utils.NotFound(c, "Payer has no bank details on file")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"qr_url":         qrURL,
		"amount":         participant.Amount,
		"amount_display": split.FormatAmount(participant.Amount),
		"account_name":   payer.BankAccountName,
	})
}
