package comments

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/mail"
	"os"
	"strings"
	"time"

	"dropbox-comments/core/reconcile"

	"github.com/felixgeelhaar/fortify/timeout"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const unreadLabel = "UNREAD"

// NewGmailService builds a Gmail client from the OAuth client secrets and the
// stored user token. Refreshed tokens are written back to cfg.TokenPath.
func NewGmailService(ctx context.Context, cfg Config, logger *zap.Logger) (*gmail.Service, error) {
	// #nosec G304 -- path comes from configuration
	secrets, err := os.ReadFile(cfg.OAuthCredentials)
	if err != nil {
		return nil, fmt.Errorf("%w: read OAuth credentials %s: %w", reconcile.ErrSourceUnavailable, cfg.OAuthCredentials, err)
	}

	conf, err := google.ConfigFromJSON(secrets, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse OAuth credentials: %w", reconcile.ErrSourceUnavailable, err)
	}

	tok, err := LoadToken(cfg.TokenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no OAuth token at %s, authorize the mailbox first", reconcile.ErrSourceUnavailable, cfg.TokenPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", reconcile.ErrSourceUnavailable, err)
	}

	// The token source outlives this call; refreshes must not inherit its cancellation.
	ts := newPersistingSource(conf.TokenSource(context.WithoutCancel(ctx), tok), cfg.TokenPath, tok, logger)

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: create gmail client: %w", reconcile.ErrSourceUnavailable, err)
	}
	return svc, nil
}

// GmailSource reads Dropbox comment notifications from a Gmail mailbox.
type GmailSource struct {
	svc     *gmail.Service
	cfg     Config
	user    string
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewGmailSource creates a source over svc.
func NewGmailSource(svc *gmail.Service, cfg Config, logger *zap.Logger) *GmailSource {
	user := cfg.UserEmail
	if user == "" {
		user = "me"
	}
	d := time.Duration(cfg.TimeoutSeconds) * time.Second
	if d <= 0 {
		d = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GmailSource{svc: svc, cfg: cfg, user: user, timeout: d, logger: logger, now: time.Now}
}

func call[T any](ctx context.Context, g *GmailSource, fn func(ctx context.Context) (T, error)) (T, error) {
	t := timeout.New[T](timeout.Config{DefaultTimeout: g.timeout})
	return t.Execute(ctx, g.timeout, fn)
}

// FetchPendingEvents implements Source.
func (g *GmailSource) FetchPendingEvents(ctx context.Context) ([]reconcile.CommentEvent, error) {
	list, err := call(ctx, g, func(ctx context.Context) (*gmail.ListMessagesResponse, error) {
		req := g.svc.Users.Messages.List(g.user).Q(g.cfg.Query).Context(ctx)
		if g.cfg.MaxResults > 0 {
			req = req.MaxResults(g.cfg.MaxResults)
		}
		return req.Do()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", reconcile.ErrSourceUnavailable, err)
	}

	// Search indexing of forwarded mail lags, so the subject is filtered here
	// rather than in the query.
	var ids []string
	for _, m := range list.Messages {
		subject, err := g.subject(ctx, m.Id)
		if err != nil {
			return nil, fmt.Errorf("%w: read subject of %s: %w", reconcile.ErrSourceUnavailable, m.Id, err)
		}
		if g.cfg.SubjectFilter == "" || strings.Contains(strings.ToLower(subject), strings.ToLower(g.cfg.SubjectFilter)) {
			ids = append(ids, m.Id)
		}
	}

	events := make([]reconcile.CommentEvent, 0, len(ids))
	for _, id := range ids {
		event, ok := g.parseMessage(ctx, id)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	g.logger.Debug("Fetched comment notifications",
		zap.Int("listed", len(list.Messages)),
		zap.Int("matching", len(ids)),
		zap.Int("parsed", len(events)),
	)
	return events, nil
}

func (g *GmailSource) subject(ctx context.Context, id string) (string, error) {
	msg, err := call(ctx, g, func(ctx context.Context) (*gmail.Message, error) {
		return g.svc.Users.Messages.Get(g.user, id).Format("metadata").MetadataHeaders("Subject").Context(ctx).Do()
	})
	if err != nil {
		return "", err
	}
	return header(msg.Payload, "Subject"), nil
}

func (g *GmailSource) parseMessage(ctx context.Context, id string) (reconcile.CommentEvent, bool) {
	l := g.logger.With(zap.String("message_id", id))

	msg, err := call(ctx, g, func(ctx context.Context) (*gmail.Message, error) {
		return g.svc.Users.Messages.Get(g.user, id).Format("full").Context(ctx).Do()
	})
	if err != nil {
		l.Warn("Failed to fetch message", zap.Error(err))
		return reconcile.CommentEvent{}, false
	}

	fileName, commenter, ok := ParseSubject(header(msg.Payload, "Subject"))
	if !ok {
		l.Debug("Subject does not name a file")
		return reconcile.CommentEvent{}, false
	}

	occurred, err := mail.ParseDate(header(msg.Payload, "Date"))
	if err != nil {
		occurred = g.now()
	}

	body, ok, err := MessageBody(msg.Payload)
	if err != nil {
		l.Warn("Failed to decode message body", zap.Error(err))
		return reconcile.CommentEvent{}, false
	}
	if !ok {
		l.Debug("Message has no readable body")
		return reconcile.CommentEvent{}, false
	}

	text := ExtractCommentText(body)
	if text == "" {
		l.Debug("Message has no comment text")
		return reconcile.CommentEvent{}, false
	}

	return reconcile.CommentEvent{
		EventID:     id,
		FileName:    fileName,
		CommentText: text,
		Commenter:   commenter,
		OccurredAt:  occurred,
	}, true
}

// Ack marks the messages behind ids as read so later polls skip them.
// Every id is attempted; failures are joined.
func (g *GmailSource) Ack(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		_, err := call(ctx, g, func(ctx context.Context) (*gmail.Message, error) {
			req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{unreadLabel}}
			return g.svc.Users.Messages.Modify(g.user, id, req).Context(ctx).Do()
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("mark %s read: %w", id, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", reconcile.ErrSourceUnavailable, errors.Join(errs...))
	}
	return nil
}

func header(part *gmail.MessagePart, name string) string {
	if part == nil {
		return ""
	}
	for _, h := range part.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// MessageBody returns the first readable body of a message part tree.
// Parts are visited in order; HTML parts are flattened with HTMLToText.
func MessageBody(part *gmail.MessagePart) (string, bool, error) {
	if part == nil {
		return "", false, nil
	}
	if part.Body != nil && part.Body.Data != "" {
		return decodePart(part)
	}
	for _, p := range part.Parts {
		switch p.MimeType {
		case "text/plain", "text/html":
			if p.Body != nil && p.Body.Data != "" {
				return decodePart(p)
			}
		default:
			if len(p.Parts) > 0 {
				body, ok, err := MessageBody(p)
				if err != nil || ok {
					return body, ok, err
				}
			}
		}
	}
	return "", false, nil
}

func decodePart(p *gmail.MessagePart) (string, bool, error) {
	text, err := DecodeBody(p.Body.Data)
	if err != nil {
		return "", false, err
	}
	if p.MimeType == "text/html" {
		text = HTMLToText(text)
	}
	return text, true, nil
}
