package notifiers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/argus-dev/argus/internal/models"
)

func testAccount() models.Account {
	return models.Account{
		Name:       "acct1",
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550000000",
		TwiMLURL:   "https://handler.twilio.com/bin/abc",
		Recipients: []string{"+15551111111", "+15552222222"},
		Methods:    []models.Method{models.MethodSMS},
	}
}

func TestSMSPostsForm(t *testing.T) {
	var gotPath, gotTo, gotBody, gotUser string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		gotUser, _, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tw := &Twilio{BaseURL: srv.URL}
	if err := tw.SMS(context.Background(), testAccount(), "+15551111111", "job j1 is failing"); err != nil {
		t.Fatalf("SMS failed: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotTo != "+15551111111" {
		t.Errorf("unexpected To %s", gotTo)
	}
	if gotBody != "job j1 is failing" {
		t.Errorf("unexpected Body %s", gotBody)
	}
	if gotUser != "AC123" {
		t.Errorf("expected basic auth with account SID, got %s", gotUser)
	}
}

func TestCallRequiresTwiMLURL(t *testing.T) {
	tw := &Twilio{}
	account := testAccount()
	account.TwiMLURL = ""

	if err := tw.Call(context.Background(), account, "+15551111111"); err == nil {
		t.Fatal("expected error without twiml_url")
	}
}

func TestCallPostsToCallsEndpoint(t *testing.T) {
	var gotPath, gotURL string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotURL = r.PostFormValue("Url")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tw := &Twilio{BaseURL: srv.URL}
	if err := tw.Call(context.Background(), testAccount(), "+15551111111"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Calls.json" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotURL != "https://handler.twilio.com/bin/abc" {
		t.Errorf("unexpected TwiML url %s", gotURL)
	}
}

func TestTwilioErrorStatusSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tw := &Twilio{BaseURL: srv.URL}
	if err := tw.SMS(context.Background(), testAccount(), "+15551111111", "msg"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestMultiOneBadRecipientDoesNotStopOthers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		r.ParseForm()
		if r.PostFormValue("To") == "+15551111111" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := Multi{Voice: &Twilio{BaseURL: srv.URL}}
	account := testAccount()

	outcomes := m.Deliver(context.Background(), account, account.Methods, account.Recipients, "msg")

	if calls != 2 {
		t.Fatalf("expected delivery attempted to both recipients, got %d calls", calls)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil {
		t.Error("expected failure outcome for first recipient")
	}
	if outcomes[1].Err != nil {
		t.Errorf("expected success for second recipient, got %v", outcomes[1].Err)
	}
}

func TestMultiUnconfiguredChannelIsDataNotPanic(t *testing.T) {
	m := Multi{}
	account := testAccount()
	account.Methods = []models.Method{models.MethodCall, models.MethodEmail}

	outcomes := m.Deliver(context.Background(), account, account.Methods, []string{"+15551111111"}, "msg")

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err == nil {
			t.Errorf("expected error outcome for unconfigured %s channel", o.Method)
		}
	}
}
