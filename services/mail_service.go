package services

import (
	"fmt"

	"picking-app/config"
	"picking-app/models"

	"gopkg.in/gomail.v2"
)

// MailService sends the order-completion notification for e-commerce orders.
// Disabled when SMTP_HOST is not configured.
type MailService struct{}

func NewMailService() *MailService {
	return &MailService{}
}

func (m *MailService) SendOrderCompleted(order *models.Order) error {
	if config.SMTPHost == "" || order.CustomerEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hello %s,<br><br>Your order <b>%s</b> has been picked and completed.<br>Shipping address: %s<br><br>Thank you.",
		order.CustomerName, order.OrderNo, order.ShippingAddress)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", "Order "+order.OrderNo+" completed")
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}
