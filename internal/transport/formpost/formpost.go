package formpost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/trace"

	"github.com/avstrong/orderform/internal/logger"
)

// PayloadField is the multipart field carrying the serialised application.
const PayloadField = "payload"

// Field is one form value. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

type Request struct {
	Fields  []Field
	Payload []byte
}

type Conf struct {
	L       *logger.Logger
	BaseURL string
	Action  string
	// Client defaults to a client that never follows redirects and has no timeout.
	Client *http.Client
}

type Client struct {
	l      *logger.Logger
	target string
	client *http.Client
}

func New(conf Conf) (*Client, error) {
	target, err := resolve(conf.BaseURL, conf.Action)
	if err != nil {
		return nil, err
	}

	client := conf.Client
	if client == nil {
		//nolint:exhaustruct
		client = &http.Client{}
	}

	noRedirects := *client
	noRedirects.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		l:      conf.L,
		target: target,
		client: &noRedirects,
	}, nil
}

func resolve(baseURL, action string) (string, error) {
	if action == "" {
		action = "/"
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse form base url %q: %w", baseURL, err)
	}

	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("parse form action %q: %w", action, err)
	}

	target := base.ResolveReference(ref)
	if !target.IsAbs() {
		return "", fmt.Errorf("form target %q: %w", target, ErrRelativeTarget)
	}

	return target.String(), nil
}

func (c *Client) Target() string {
	return c.target
}

// Send posts one submission. 2xx and 3xx are affirmative, anything else is a *RejectedError.
func (c *Client) Send(ctx context.Context, req *Request) error {
	body, contentType, err := encode(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target, body)
	if err != nil {
		return fmt.Errorf("build form request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json, text/html;q=0.9")

	var traceID string

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	c.l.LogInfo("type: submission, url: %s, bytes: %d, traceID: %s", c.target, body.Len(), traceID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post form to %s: %w", c.target, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)

		if err := resp.Body.Close(); err != nil {
			c.l.LogErrorf("Could not close form response body: %v", err.Error())
		}
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		c.l.LogInfo("Form backend accepted submission with status %d", resp.StatusCode)

		return nil
	}

	return &RejectedError{StatusCode: resp.StatusCode}
}

func encode(req *Request) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range req.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}

	if err := w.WriteField(PayloadField, string(req.Payload)); err != nil {
		return nil, "", fmt.Errorf("write payload field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return body, w.FormDataContentType(), nil
}
