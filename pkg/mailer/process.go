package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/daryha/buzzletBack/pkg/mailer/templates"
)

// ErrPermanent marks jobs that will never succeed; the worker drops them instead of requeueing.
var ErrPermanent = errors.New("permanent email job failure")

// Process decodes one queued job, renders it and hands it to sender.
func Process(ctx context.Context, sender Sender, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
	}
	if err := sender.Send(ctx, job.To, strings.TrimSpace(subject), text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	return nil
}
