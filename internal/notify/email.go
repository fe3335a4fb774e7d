package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"assistant/internal/dbmysql"
)

// EmailChannel delivers notifications through a mail relay HTTP API. The
// relay endpoint and the shared key are looked up from the secret store at
// send time, so rotating the key needs no restart.
type EmailChannel struct {
	secrets    dbmysql.SecretRepository
	secretName string
	from       string
	client     *http.Client
}

func NewEmailChannel(secrets dbmysql.SecretRepository, secretName, from string) *EmailChannel {
	return &EmailChannel{
		secrets:    secrets,
		secretName: secretName,
		from:       from,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *EmailChannel) Scope() string {
	return "email"
}

// Deliver posts a single message to the mail relay, authenticated via basic
// auth with the fixed "api" principal and the shared key.
func (c *EmailChannel) Deliver(n *Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	secret, err := c.secrets.ByName(ctx, c.secretName)
	if err != nil {
		return fmt.Errorf("load mail relay secret: %w", err)
	}

	email := n.User.Settings["email"]
	if email == "" {
		return fmt.Errorf("user %s has no email address configured", n.User.Username)
	}

	form := url.Values{
		"from":    {c.from},
		"to":      {fmt.Sprintf("%s %s <%s>", n.User.FirstName, n.User.LastName, email)},
		"subject": {n.Summary()},
		"text":    {n.Message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, secret.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build mail relay request: %w", err)
	}
	req.SetBasicAuth("api", secret.Key)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mail relay returned status %s", resp.Status)
	}

	return nil
}
