package notifiers

import (
	"context"
	"fmt"

	"github.com/argus-dev/argus/internal/models"
)

// Outcome is the delivery result for one recipient over one method. Failures
// are data: nothing a notifier does leaks control flow back into the
// scheduler.
type Outcome struct {
	Recipient string
	Method    models.Method
	Err       error
}

// Notifier delivers a message to every recipient over every enabled method.
type Notifier interface {
	Deliver(ctx context.Context, account models.Account, methods []models.Method, recipients []string, message string) []Outcome
}

// Nop discards deliveries. Useful in tests and dry runs.
type Nop struct{}

func (Nop) Deliver(_ context.Context, _ models.Account, methods []models.Method, recipients []string, _ string) []Outcome {
	out := make([]Outcome, 0, len(methods)*len(recipients))
	for _, m := range methods {
		for _, r := range recipients {
			out = append(out, Outcome{Recipient: r, Method: m})
		}
	}
	return out
}

// Multi fans a delivery out across the concrete channels. A recipient failure
// on one method never stops delivery to the remaining recipients or methods.
type Multi struct {
	Voice *Twilio
	Mail  *SMTPMailer
}

func (m Multi) Deliver(ctx context.Context, account models.Account, methods []models.Method, recipients []string, message string) []Outcome {
	var out []Outcome

	for _, method := range methods {
		for _, recipient := range recipients {
			o := Outcome{Recipient: recipient, Method: method}

			switch method {
			case models.MethodCall:
				if m.Voice == nil {
					o.Err = fmt.Errorf("voice channel not configured")
				} else {
					o.Err = m.Voice.Call(ctx, account, recipient)
				}
			case models.MethodSMS:
				if m.Voice == nil {
					o.Err = fmt.Errorf("sms channel not configured")
				} else {
					o.Err = m.Voice.SMS(ctx, account, recipient, message)
				}
			case models.MethodEmail:
				if m.Mail == nil {
					o.Err = fmt.Errorf("email channel not configured")
				} else {
					o.Err = m.Mail.Send(account, recipient, message)
				}
			default:
				o.Err = fmt.Errorf("unknown delivery method %q", method)
			}

			out = append(out, o)
		}
	}

	return out
}
