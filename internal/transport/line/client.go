package line

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/pkg/log"
	"github.com/sandevgo/gomibot/pkg/retry"
)

// maxMessages is the Messaging API limit per reply or push request.
const maxMessages = 5

// Client calls the LINE Messaging API.
type Client struct {
	api     *messaging_api.MessagingApiAPI
	retrier *retry.Retrier
	newKey  func() string
}

// NewClient builds a client for the Messaging API at endpoint, normally
// https://api.line.me.
func NewClient(endpoint, accessToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(
		accessToken,
		messaging_api.WithEndpoint(endpoint),
		messaging_api.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("line: failed to create messaging client: %w", err)
	}

	return &Client{
		api:     api,
		retrier: retry.NewDefaultRetrier(),
		newKey:  uuid.NewString,
	}, nil
}

// Reply answers a webhook event. A reply token is single use, so messages
// beyond the per-request limit are dropped and failures are not retried.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error {
	if replyToken == "" {
		return fmt.Errorf("line: empty reply token")
	}
	if len(messages) > maxMessages {
		log.FromCtx(ctx).Warn().Int("count", len(messages)).Msg("line: truncating reply")
		messages = messages[:maxMessages]
	}

	resp, _, err := c.api.ReplyMessageWithHttpInfo(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	err = apiError(resp, err)
	observe(ctx, "reply", resp, err)
	count("reply", err)
	return err
}

// Push sends messages to a LINE user id, batching over the per-request limit.
// Each batch carries its own X-Line-Retry-Key, reused across retries so the
// API delivers the batch at most once.
func (c *Client) Push(ctx context.Context, to string, messages []messaging_api.MessageInterface) error {
	if to == "" {
		return fmt.Errorf("line: empty push target")
	}

	for start := 0; start < len(messages); start += maxMessages {
		end := min(start+maxMessages, len(messages))
		if err := c.push(ctx, to, messages[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) push(ctx context.Context, to string, messages []messaging_api.MessageInterface) error {
	key := c.newKey()
	req := &messaging_api.PushMessageRequest{To: to, Messages: messages}

	err := c.retrier.Do(ctx, func() error {
		resp, _, err := c.api.PushMessageWithHttpInfo(req, key)
		// 409 means a request with this retry key was already accepted.
		if resp != nil && resp.StatusCode == http.StatusConflict {
			log.FromCtx(ctx).Info().Str("retry_key", key).Msg("line: push already accepted")
			observe(ctx, "push", resp, nil)
			return nil
		}
		err = apiError(resp, err)
		observe(ctx, "push", resp, err)
		if err != nil && !retryable(resp) {
			return retry.Permanent(err)
		}
		return err
	})
	count("push", err)
	return err
}

func apiError(resp *http.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil {
		return fmt.Errorf("line: HTTP %d: %w", resp.StatusCode, err)
	}
	return fmt.Errorf("line: request failed: %w", err)
}

// retryable reports whether a failed attempt may succeed later. A missing
// response is a transport error.
func retryable(resp *http.Response) bool {
	if resp == nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

func observe(ctx context.Context, op string, resp *http.Response, err error) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("op", op).Int("status", status).Msg("line: API request failed")
		return
	}
	log.FromCtx(ctx).Debug().Str("op", op).Int("status", status).Msg("line: API request sent")
}

func count(op string, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	metrics.GatewayRequests.WithLabelValues(core.ChannelLINE, op, result).Inc()
}
