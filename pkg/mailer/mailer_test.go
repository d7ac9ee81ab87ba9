package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestProcess_WelcomeJob(t *testing.T) {
	s := &fakeSender{}
	body := mustJSON(t, NewWelcomeJob("ann@example.com", "Ann", "buzzlet"))

	require.NoError(t, Process(context.Background(), s, body))
	require.Len(t, s.sent, 1)
	m := s.sent[0]
	assert.Equal(t, "ann@example.com", m.to)
	assert.Equal(t, "Welcome to buzzlet, Ann!", m.subject)
	assert.Contains(t, m.text, "ann@example.com")
	assert.Contains(t, m.html, "<strong>ann@example.com</strong>")
}

func TestProcess_LiteralJob(t *testing.T) {
	s := &fakeSender{}
	body := mustJSON(t, EmailJob{To: "a@b.co", Subject: "hi", Text: "plain"})

	require.NoError(t, Process(context.Background(), s, body))
	assert.Equal(t, sentMail{"a@b.co", "hi", "plain", ""}, s.sent[0])
}

func TestProcess_Failures(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		sendErr   error
		permanent bool
	}{
		{name: "bad json", body: []byte("{"), permanent: true},
		{name: "no recipient", body: []byte(`{"subject":"x"}`), permanent: true},
		{name: "unknown template", body: []byte(`{"to":"a@b.co","template":"nope"}`), permanent: true},
		{name: "transport error", body: []byte(`{"to":"a@b.co","subject":"x"}`), sendErr: errors.New("503"), permanent: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Process(context.Background(), &fakeSender{err: tt.sendErr}, tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.permanent, errors.Is(err, ErrPermanent))
		})
	}
}
