package jobs

import (
	"context"
	"fmt"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/masterdata"
)

// SMSNotifier turns booking confirmations into queued SMS tasks. It looks up
// the customer's mobile number at enqueue time; customers without one are
// silently skipped.
type SMSNotifier struct {
	client    *Client
	customers *masterdata.Service
	sender    string
}

// NewSMSNotifier builds an SMSNotifier.
func NewSMSNotifier(client *Client, customers *masterdata.Service, sender string) *SMSNotifier {
	return &SMSNotifier{client: client, customers: customers, sender: sender}
}

// AppointmentBooked enqueues a confirmation SMS for the appointment.
func (n *SMSNotifier) AppointmentBooked(ctx context.Context, appt booking.Appointment) error {
	customer, err := n.customers.GetCustomer(ctx, appt.CustomerID)
	if err != nil {
		return fmt.Errorf("jobs: notify booking: %w", err)
	}
	if customer.Mobile == "" {
		return nil
	}

	body := fmt.Sprintf("%s: your %s appointment is confirmed for %s.",
		n.sender, appt.WorkName, appt.StartAt.Format("2006-01-02 15:04"))
	_, err = n.client.EnqueueSendSMS(ctx, SendSMSPayload{
		To:     customer.Mobile,
		Body:   body,
		Sender: n.sender,
	})
	if err != nil {
		return fmt.Errorf("jobs: enqueue sms: %w", err)
	}
	return nil
}
