// Package notify renders the templated emails sent to persons and operators
// and hands them to an SMTP relay.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"kyc/internal/kyc/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

// Links are the front-end URLs embedded in emails.
type Links struct {
	VerificationBase string
	ResetBase        string
}

// Notifier implements ports.Notifier.
type Notifier struct {
	sender    Sender
	from      string
	links     Links
	templates map[string]*template.Template
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Notifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// New parses the embedded templates. A template that fails to parse is a
// programming error and is returned as such.
func New(sender Sender, from string, links Links, opts ...Option) (*Notifier, error) {
	n := &Notifier{
		sender:    sender,
		from:      from,
		links:     links,
		templates: make(map[string]*template.Template),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	for _, file := range files {
		t, err := template.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", file, err)
		}
		n.templates[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return n, nil
}

// Send renders email and relays it. The "link" parameter is derived from the
// template: verification links carry the person id, reset links the reset
// token.
func (n *Notifier) Send(ctx context.Context, email ports.Email) error {
	if email.To == "" {
		return fmt.Errorf("email %s has no recipient", email.Template)
	}
	key := fmt.Sprintf("%s_%s", email.Template, email.Language)
	t, ok := n.templates[key]
	if !ok {
		return fmt.Errorf("unknown email template %q", key)
	}

	params := maps.Clone(email.Params)
	if params == nil {
		params = map[string]string{}
	}
	switch email.Template {
	case ports.TemplateVerification:
		params["link"] = withToken(n.links.VerificationBase, params["person_id"])
	case ports.TemplatePasswordReset:
		params["link"] = withToken(n.links.ResetBase, params["token"])
	}

	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", params); err != nil {
		return fmt.Errorf("render subject %s: %w", key, err)
	}
	if err := t.ExecuteTemplate(&body, "body", params); err != nil {
		return fmt.Errorf("render body %s: %w", key, err)
	}

	msg := n.compose(email.To, strings.TrimSpace(subject.String()), body.Bytes())
	if err := n.sender.Send(ctx, n.from, []string{email.To}, msg); err != nil {
		return fmt.Errorf("send %s: %w", key, err)
	}
	n.logger.InfoContext(ctx, "email sent", "template", key)
	return nil
}

func (n *Notifier) compose(to, subject string, body []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes()
}

func withToken(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
