package notify

import (
	"context"
	"fmt"
	"time"
)

const whenFormat = "Jan 2, 2006 at 3:04 PM"

func (s *Service) SendSessionBooked(ctx context.Context, email, name, coachName string, when time.Time) error {
	subject := "Training Session Booked"
	body := fmt.Sprintf(`Hi %s,

Your training session is booked!

Coach: %s
Time: %s

We'll let you know once payment is confirmed.

- The LevelUp Team`, name, coachName, when.Format(whenFormat))

	return s.Send(ctx, "session_booked", email, name, subject, body)
}

func (s *Service) SendJoinRequestReceived(ctx context.Context, email, name, athleteName string, when time.Time) error {
	subject := "New Partner Request"
	body := fmt.Sprintf(`Hi %s,

%s would like to join your partner session on %s.

Open the app to approve or decline the request.

- The LevelUp Team`, name, athleteName, when.Format(whenFormat))

	return s.Send(ctx, "join_request", email, name, subject, body)
}

func (s *Service) SendJoinRequestResolved(ctx context.Context, email, name string, approved bool, when time.Time) error {
	subject := "Partner Request Declined"
	outcome := "was declined"
	if approved {
		subject = "Partner Request Approved"
		outcome = "was approved - you're in"
	}
	body := fmt.Sprintf(`Hi %s,

Your request to join the session on %s %s.

- The LevelUp Team`, name, when.Format(whenFormat), outcome)

	return s.Send(ctx, "join_request_resolved", email, name, subject, body)
}

func (s *Service) SendSessionCancelled(ctx context.Context, email, name string, when time.Time, creditCents int64) error {
	subject := "Training Session Cancelled"
	creditLine := ""
	if creditCents > 0 {
		creditLine = fmt.Sprintf("\nA credit of $%.2f has been added to your account.\n", float64(creditCents)/100)
	}
	body := fmt.Sprintf(`Hi %s,

Your training session on %s has been cancelled.
%s
- The LevelUp Team`, name, when.Format(whenFormat), creditLine)

	return s.Send(ctx, "session_cancelled", email, name, subject, body)
}

func (s *Service) SendSessionRescheduled(ctx context.Context, email, name string, oldWhen, newWhen time.Time) error {
	subject := "Training Session Rescheduled"
	body := fmt.Sprintf(`Hi %s,

Your training session has moved:

From: %s
To:   %s

- The LevelUp Team`, name, oldWhen.Format(whenFormat), newWhen.Format(whenFormat))

	return s.Send(ctx, "session_rescheduled", email, name, subject, body)
}
