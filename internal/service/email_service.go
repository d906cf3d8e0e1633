package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/hatstore-next/internal/config"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg   *config.EmailConfig
	store *config.StoreConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, store *config.StoreConfig) *EmailService {
	return &EmailService{cfg: cfg, store: store}
}

// SendOrderConfirmation 发送下单确认邮件给顾客，并抄送店主。
// 邮件未配置时降级为记录渲染后的内容，不算失败。
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	if order == nil {
		return nil
	}
	subject, body := s.buildOrderConfirmationContent(order)
	if err := s.sendTextEmail(order.Email, subject, body); err != nil {
		if errors.Is(err, ErrEmailNotConfigured) {
			logger.Infow("email_not_configured_log_only",
				"order_no", order.OrderNo,
				"receiver_email", order.Email,
				"subject", subject,
				"body", body,
			)
			return nil
		}
		return err
	}
	if s.store != nil && strings.TrimSpace(s.store.OwnerEmail) != "" && !strings.EqualFold(s.store.OwnerEmail, order.Email) {
		return s.sendTextEmail(s.store.OwnerEmail, subject, body)
	}
	return nil
}

func (s *EmailService) buildOrderConfirmationContent(order *models.Order) (string, string) {
	storeName := "Hat Store"
	if s.store != nil && strings.TrimSpace(s.store.Name) != "" {
		storeName = strings.TrimSpace(s.store.Name)
	}
	subject := fmt.Sprintf("%s - Order %s confirmed", storeName, order.OrderNo)

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order!\n\n")
	fmt.Fprintf(&b, "Order number: %s\n", order.OrderNo)
	fmt.Fprintf(&b, "Status: %s\n\n", order.Status)
	for _, item := range order.Items {
		subtotal := item.Subtotal()
		fmt.Fprintf(&b, "  %s x%d @ %s = %s\n", item.ProductName, item.Quantity, item.PriceAtPurchase.String(), subtotal.String())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalPrice.String())
	if order.ShippingAddress.ID != 0 {
		addr := order.ShippingAddress
		fmt.Fprintf(&b, "\nShipping to:\n%s\n%s\n", addr.Name, addr.AddressLine1)
		if addr.AddressLine2 != "" {
			fmt.Fprintf(&b, "%s\n", addr.AddressLine2)
		}
		fmt.Fprintf(&b, "%s, %s %s\n%s\n", addr.City, addr.State, addr.PostalCode, addr.Country)
	}
	return subject, b.String()
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailNotConfigured
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return err
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
