package push

import (
	"context"
	"errors"
)

// ErrTokenNotRegistered means the device token is dead and must not be
// retried.
var ErrTokenNotRegistered = errors.New("push token not registered")

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type Gateway interface {
	Send(ctx context.Context, token string, msg Message) (messageID string, err error)
}
