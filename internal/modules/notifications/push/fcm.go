package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

// FCM sends through the FCM HTTP endpoint.
type FCM struct {
	client    *fasthttp.Client
	endpoint  string
	serverKey string
}

func NewFCM(endpoint, serverKey string) *FCM {
	return &FCM{
		client: &fasthttp.Client{
			Name:                "freshveg-push",
			MaxConnsPerHost:     64,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
		endpoint:  endpoint,
		serverKey: serverKey,
	}
}

type fcmRequest struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

func (f *FCM) Send(ctx context.Context, token string, msg Message) (string, error) {
	body, err := json.Marshal(fcmRequest{
		To:           token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
		Priority:     "high",
	})
	if err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "key="+f.serverKey)
	req.SetBody(body)

	timeout := 10 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
		if timeout <= 0 {
			return "", context.DeadlineExceeded
		}
	}
	if err := f.client.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("fcm request failed: %w", err)
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return "", fmt.Errorf("fcm http %d: %s", code, textutil.Truncate(string(resp.Body()), 200))
	}

	var out fcmResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("fcm response decode: %w", err)
	}
	if len(out.Results) == 0 {
		return "", fmt.Errorf("fcm response has no results")
	}

	r := out.Results[0]
	switch r.Error {
	case "":
		return r.MessageID, nil
	case "NotRegistered", "InvalidRegistration", "UNREGISTERED":
		return "", fmt.Errorf("%w: %s", ErrTokenNotRegistered, r.Error)
	default:
		return "", fmt.Errorf("fcm error: %s", r.Error)
	}
}
