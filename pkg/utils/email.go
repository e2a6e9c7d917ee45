package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Timatix Auto Works"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1565C0; margin: 0;">Timatix Auto Works</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 Timatix Auto Works. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Timatix-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Errorf("Failed to send email: %v", err)
		return err
	}

	log.Infof("Successfully sent email to recipients: %v", to)
	return nil
}

func SendQuoteReadyEmail(clientEmail, clientName, serviceName, totalAmount string) error {
	subject := "Your Service Quote is Ready - Timatix Auto Works"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Quote Ready</h1>
					<p>Hello %s,</p>
					<p>Your quote for <strong>%s</strong> is ready: <strong>R %s</strong>.</p>
					<p>Please log in to your account to accept or decline the quote.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Quote</a>
					</div>
					<p>Best regards,<br>The Timatix Team</p>
				</div>`+emailFooter,
		clientName, serviceName, totalAmount, baseURL)

	return sendEmail([]string{clientEmail}, subject, body)
}

func SendOverdueInvoiceEmail(clientEmail, clientName, invoiceNumber, totalAmount string) error {
	subject := "Invoice Overdue - Timatix Auto Works"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #c0392b; text-align: center;">Invoice Overdue</h1>
					<p>Hello %s,</p>
					<p>Invoice <strong>%s</strong> for <strong>R %s</strong> is past its due date.</p>
					<p>Please settle the outstanding amount at your earliest convenience to avoid service interruptions.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/invoices" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Pay Now</a>
					</div>
					<p>Best regards,<br>The Timatix Team</p>
				</div>`+emailFooter,
		clientName, invoiceNumber, totalAmount, baseURL)

	return sendEmail([]string{clientEmail}, subject, body)
}

func SendAppointmentReminderEmail(clientEmail, clientName, serviceName, vehicleMake, vehicleModel, timeSlot string) error {
	subject := "Service Appointment Tomorrow - Timatix Auto Works"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Appointment Reminder</h1>
					<p>Hello %s,</p>
					<p>This is a reminder that your <strong>%s</strong> for your <strong>%s %s</strong> is booked for tomorrow at <strong>%s</strong>.</p>
					<p>Please drop your vehicle off at the workshop on time. If you need to reschedule, contact us as soon as possible.</p>
					<p>Best regards,<br>The Timatix Team</p>
				</div>`+emailFooter,
		clientName, serviceName, vehicleMake, vehicleModel, timeSlot)

	return sendEmail([]string{clientEmail}, subject, body)
}
