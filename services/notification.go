package services

import (
	"context"
	"fmt"
	"log"

	"github.com/lailatuandayhotro-prog/sharebill/config"
	"github.com/lailatuandayhotro-prog/sharebill/database"
	"github.com/lailatuandayhotro-prog/sharebill/models"
	"github.com/lailatuandayhotro-prog/sharebill/split"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

type NotificationService struct {
	fcm *messaging.Client
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}
		notifService.initFCM()
	}
	return notifService
}

func (ns *NotificationService) initFCM() {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, running without push notifications:", err)
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Println("⚠️  Firebase messaging unavailable:", err)
		return
	}
	ns.fcm = client
}

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if ns.fcm == nil || fcmToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := ns.fcm.Send(context.Background(), msg); err != nil {
		log.Printf("❌ FCM send error: %v", err)
	}
}

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ SendGrid send error: %v", err)
		return
	}
	if resp.StatusCode >= 300 {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// NotifyExpenseAdded pushes to every member participant except the payer
func (ns *NotificationService) NotifyExpenseAdded(expense models.Expense, participants []models.ExpenseParticipant, payer models.User, group models.Group) {
	title := fmt.Sprintf("New expense in %s", group.Name)

	for _, p := range participants {
		if p.UserID == nil || *p.UserID == expense.PaidBy {
			continue
		}

		var user models.User
		if err := database.DB.First(&user, *p.UserID).Error; err != nil {
			continue
		}

		body := fmt.Sprintf("%s added \"%s\" — your share is %sđ",
			payer.Name, expense.Description, split.FormatAmount(p.Amount))
		ns.sendPush(user.FCMToken, title, body, map[string]string{
			"type":       "expense_added",
			"expense_id": expense.ID.String(),
			"group_id":   group.ID.String(),
		})
	}
}

// NotifyPaymentMarked tells the payer that someone settled their share
func (ns *NotificationService) NotifyPaymentMarked(participant models.ExpenseParticipant, participantName string, payer models.User, expense models.Expense) {
	body := fmt.Sprintf("%s paid %sđ back for \"%s\"",
		participantName, split.FormatAmount(participant.Amount), expense.Description)
	ns.sendPush(payer.FCMToken, "Payment received", body, map[string]string{
		"type":       "payment_marked",
		"expense_id": expense.ID.String(),
	})
}

// NotifyMemberAdded welcomes a user into a group
func (ns *NotificationService) NotifyMemberAdded(group models.Group, adder models.User, target models.User) {
	body := fmt.Sprintf("%s added you to %s", adder.Name, group.Name)
	ns.sendPush(target.FCMToken, "Added to group", body, map[string]string{
		"type":     "member_added",
		"group_id": group.ID.String(),
	})
}

// NotifyInvitation emails a not-yet-registered user an invite
func (ns *NotificationService) NotifyInvitation(email string, inviterName string, groupName string) {
	subject := fmt.Sprintf("%s invited you to %s on %s", inviterName, groupName, config.AppConfig.AppName)
	html := fmt.Sprintf(
		"<p>%s invited you to split expenses in <b>%s</b>.</p><p><a href=\"%s\">Join now</a> to see what you owe.</p>",
		inviterName, groupName, config.AppConfig.AppURL)
	ns.sendEmail(email, "", subject, html)
}
