package notifiers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/argus-dev/argus/internal/models"
)

const defaultTwilioBase = "https://api.twilio.com"

// Twilio places voice calls and sends SMS through the Twilio REST API using
// the credentials carried on the account.
type Twilio struct {
	BaseURL string
	Client  *http.Client
}

func NewTwilio() *Twilio {
	return &Twilio{}
}

func (t *Twilio) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (t *Twilio) base() string {
	if t.BaseURL != "" {
		return strings.TrimRight(t.BaseURL, "/")
	}
	return defaultTwilioBase
}

// Call rings the recipient; the call content is the account's TwiML bin URL.
func (t *Twilio) Call(ctx context.Context, account models.Account, recipient string) error {
	if account.TwiMLURL == "" {
		return fmt.Errorf("account %s has no twiml_url for voice calls", account.Name)
	}

	data := url.Values{}
	data.Set("To", recipient)
	data.Set("From", account.FromNumber)
	data.Set("Url", account.TwiMLURL)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", t.base(), account.AccountSID)
	return t.post(ctx, account, endpoint, data)
}

// SMS sends the message body to the recipient.
func (t *Twilio) SMS(ctx context.Context, account models.Account, recipient, message string) error {
	data := url.Values{}
	data.Set("To", recipient)
	data.Set("From", account.FromNumber)
	data.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.base(), account.AccountSID)
	return t.post(ctx, account, endpoint, data)
}

func (t *Twilio) post(ctx context.Context, account models.Account, endpoint string, data url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(account.AccountSID, account.AuthToken)

	resp, err := t.client().Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio returned status %s", resp.Status)
	}

	return nil
}
