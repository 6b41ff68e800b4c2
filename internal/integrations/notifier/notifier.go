package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// ErrSendFailed возвращается, когда письмо не удалось отправить
var ErrSendFailed = errors.New("notifier: failed to send email")

// Sender отправляет подготовленные письма. *gomail.Dialer реализует этот интерфейс
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BookingConfirmation данные письма о назначенной консультации
type BookingConfirmation struct {
	To          string
	ContactName string
	CaseNumber  string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	MeetingLink string // Пустая строка, если ссылку не удалось получить
}

// CaseReceived данные письма о принятом обращении
type CaseReceived struct {
	To          string
	ContactName string
	CaseNumber  string
	Title       string
}

// SMTP отправляет уведомления клиентам по электронной почте
type SMTP struct {
	sender Sender
	from   string
	log    Logger
}

// NewSMTP создает нотификатор поверх SMTP-сервера
func NewSMTP(host string, port int, user, password, from string, log Logger) *SMTP {
	return NewWithSender(gomail.NewDialer(host, port, user, password), from, log)
}

// NewWithSender создает нотификатор с произвольным отправителем
func NewWithSender(sender Sender, from string, log Logger) *SMTP {
	return &SMTP{sender: sender, from: from, log: log}
}

// SendBookingConfirmation отправляет подтверждение записи на консультацию
func (n *SMTP) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Здравствуйте, %s!\n\n", msg.ContactName)
	fmt.Fprintf(&body, "Консультация по обращению %s назначена на %s, %s-%s.\n", msg.CaseNumber, msg.Date, msg.StartTime, msg.EndTime)
	if msg.MeetingLink != "" {
		fmt.Fprintf(&body, "Ссылка на встречу: %s\n", msg.MeetingLink)
	} else {
		body.WriteString("Ссылку на встречу мы пришлем отдельным письмом.\n")
	}

	return n.send(ctx, msg.To, fmt.Sprintf("Консультация назначена: %s", msg.CaseNumber), body.String())
}

// SendCaseReceived отправляет подтверждение приема обращения
func (n *SMTP) SendCaseReceived(ctx context.Context, msg CaseReceived) error {
	body := fmt.Sprintf("Здравствуйте, %s!\n\nВаше обращение «%s» зарегистрировано под номером %s.\n"+
		"Выберите удобное время консультации в личном кабинете.\n", msg.ContactName, msg.Title, msg.CaseNumber)

	return n.send(ctx, msg.To, fmt.Sprintf("Обращение %s принято", msg.CaseNumber), body)
}

func (n *SMTP) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		n.log.Error("Notifier: failed to send %q to %s: %v", subject, to, err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	n.log.Info("Notifier: sent %q to %s", subject, to)
	return nil
}

// Noop используется, когда уведомления выключены в конфигурации
type Noop struct{}

func (Noop) SendBookingConfirmation(context.Context, BookingConfirmation) error { return nil }

func (Noop) SendCaseReceived(context.Context, CaseReceived) error { return nil }
