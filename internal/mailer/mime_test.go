package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw, err := buildMessage(Email{
		From: "no-reply@freshveg.local", FromName: "FreshVeg",
		To: []string{"a@example.com"}, Subject: "Order placed",
		TextBody: "hello", Headers: map[string]string{"X-FreshVeg-Notification": "n1"},
	}, "freshveg.local", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, raw, "From: FreshVeg <no-reply@freshveg.local>\r\n")
	assert.Contains(t, raw, "To: a@example.com\r\n")
	assert.Contains(t, raw, "X-FreshVeg-Notification: n1\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.Contains(t, raw, "\r\n\r\nhello\r\n")
}

func TestBuildMessage_Validation(t *testing.T) {
	_, err := buildMessage(Email{From: "x@y", Subject: "s", TextBody: "b"}, "d", time.Now())
	assert.Error(t, err)
	_, err = buildMessage(Email{From: "x@y", To: []string{"a@b"}, Subject: "s"}, "d", time.Now())
	assert.Error(t, err)
}
