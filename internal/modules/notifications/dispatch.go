package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/mailer"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications/push"
)

const (
	CodeNoPushToken = "USER_HAS_NO_FCM_TOKEN"
	CodeNoEmail     = "USER_HAS_NO_EMAIL"
)

// Dispatcher delivers one rendered notification on its channel.
type Dispatcher interface {
	Channel() Channel
	Dispatch(ctx context.Context, n Notification, msg Message) (ref string, err error)
}

// RecipientError marks a row failed without counting a send attempt:
// nothing was sent.
type RecipientError struct{ Code string }

func (e *RecipientError) Error() string { return e.Code }

type TokenStore interface {
	PushToken(ctx context.Context, userID string) (string, error)
	ClearPushToken(ctx context.Context, userID, token string) error
}

type PushDispatcher struct {
	tokens  TokenStore
	gateway push.Gateway
	logger  *slog.Logger
}

func NewPushDispatcher(tokens TokenStore, gateway push.Gateway, logger *slog.Logger) *PushDispatcher {
	return &PushDispatcher{tokens: tokens, gateway: gateway, logger: logger}
}

func (d *PushDispatcher) Channel() Channel { return ChannelPush }

func (d *PushDispatcher) Dispatch(ctx context.Context, n Notification, msg Message) (string, error) {
	if n.UserID == nil {
		return "", &RecipientError{Code: CodeNoPushToken}
	}
	token, err := d.tokens.PushToken(ctx, *n.UserID)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", &RecipientError{Code: CodeNoPushToken}
	}

	id, err := d.gateway.Send(ctx, token, push.Message{Title: msg.Title, Body: msg.Body, Data: msg.Data})
	if err != nil {
		if errors.Is(err, push.ErrTokenNotRegistered) {
			if cerr := d.tokens.ClearPushToken(ctx, *n.UserID, token); cerr != nil {
				d.logger.WarnContext(ctx, "clear dead push token failed", "user_id", *n.UserID, "err", cerr)
			} else {
				d.logger.InfoContext(ctx, "dead push token cleared", "user_id", *n.UserID)
			}
		}
		return "", err
	}
	return id, nil
}

type EmailLookup interface {
	EmailOf(ctx context.Context, userID string) (string, error)
}

type EmailDispatcher struct {
	emails   EmailLookup
	mail     mailer.Service
	from     string
	fromName string
}

func NewEmailDispatcher(emails EmailLookup, mail mailer.Service, from, fromName string) *EmailDispatcher {
	return &EmailDispatcher{emails: emails, mail: mail, from: from, fromName: fromName}
}

func (d *EmailDispatcher) Channel() Channel { return ChannelEmail }

func (d *EmailDispatcher) Dispatch(ctx context.Context, n Notification, msg Message) (string, error) {
	if n.UserID == nil {
		return "", &RecipientError{Code: CodeNoEmail}
	}
	to, err := d.emails.EmailOf(ctx, *n.UserID)
	if err != nil {
		return "", err
	}
	if to == "" {
		return "", &RecipientError{Code: CodeNoEmail}
	}

	err = d.mail.Send(ctx, mailer.Email{
		From:     d.from,
		FromName: d.fromName,
		To:       []string{to},
		Subject:  msg.Title,
		TextBody: msg.Body,
		Headers:  map[string]string{"X-FreshVeg-Notification": n.ID},
	})
	if err != nil {
		return "", err
	}
	return n.ID, nil
}
