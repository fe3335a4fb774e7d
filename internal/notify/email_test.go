package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assistant/internal/dbmysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	secret *dbmysql.Secret
	err    error
}

func (f *fakeSecrets) ByName(ctx context.Context, name string) (*dbmysql.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.secret, nil
}

func TestEmailChannel_Deliver(t *testing.T) {
	var gotUser, gotPass string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"from":    r.Form.Get("from"),
			"to":      r.Form.Get("to"),
			"subject": r.Form.Get("subject"),
			"text":    r.Form.Get("text"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	secrets := &fakeSecrets{secret: &dbmysql.Secret{Name: "mailgun", Key: "key-123", URL: server.URL}}
	channel := NewEmailChannel(secrets, "mailgun", "assistant <postmaster@example.com>")

	n := NewNotification("Hello world, this is a test message", "Reminder", time.Now().Unix(), "email", testUser())
	require.NoError(t, channel.Deliver(n))

	assert.Equal(t, "api", gotUser)
	assert.Equal(t, "key-123", gotPass)
	assert.Equal(t, "assistant <postmaster@example.com>", gotForm["from"])
	assert.Equal(t, "James Holden <holden@example.com>", gotForm["to"])
	assert.Equal(t, "Hello world, this is", gotForm["subject"])
	assert.Equal(t, "Hello world, this is a test message", gotForm["text"])
}

func TestEmailChannel_RelayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	secrets := &fakeSecrets{secret: &dbmysql.Secret{Name: "mailgun", Key: "bad-key", URL: server.URL}}
	channel := NewEmailChannel(secrets, "mailgun", "assistant <postmaster@example.com>")

	n := NewNotification("msg", "t", time.Now().Unix(), "email", testUser())
	err := channel.Deliver(n)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail relay returned status")
}

func TestEmailChannel_MissingSecret(t *testing.T) {
	secrets := &fakeSecrets{err: dbmysql.ErrSecretNotFound}
	channel := NewEmailChannel(secrets, "mailgun", "assistant <postmaster@example.com>")

	n := NewNotification("msg", "t", time.Now().Unix(), "email", testUser())
	err := channel.Deliver(n)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load mail relay secret")
}

func TestEmailChannel_MissingEmailAddress(t *testing.T) {
	secrets := &fakeSecrets{secret: &dbmysql.Secret{Name: "mailgun", Key: "key", URL: "http://relay.invalid"}}
	channel := NewEmailChannel(secrets, "mailgun", "assistant <postmaster@example.com>")

	user := testUser()
	user.Settings = map[string]string{}
	n := NewNotification("msg", "t", time.Now().Unix(), "email", user)

	err := channel.Deliver(n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
}

func TestEmailChannel_Scope(t *testing.T) {
	channel := NewEmailChannel(&fakeSecrets{}, "mailgun", "from")
	assert.Equal(t, "email", channel.Scope())
}
