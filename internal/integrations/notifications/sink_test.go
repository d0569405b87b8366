package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

type recordingPublisher struct {
	keys     []string
	messages []any
	err      error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, v)
	return nil
}

func TestBrokerSink_Notify(t *testing.T) {
	publisher := &recordingPublisher{}
	sink := NewBrokerSink(publisher)

	b := &domain.Booking{ID: 42, Code: "K7Q2ZD9M", CustomerID: 7, EmployeeID: 3, Status: domain.StatusActive}
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	n := domain.BookingNotification(b, domain.Recipient{Kind: domain.RecipientCustomer, ID: 7}, domain.TemplateBookingCreated, at)

	require.NoError(t, sink.Notify(context.Background(), n))
	require.Len(t, publisher.keys, 1)
	assert.Equal(t, "notification.booking_created", publisher.keys[0])

	envelope, ok := publisher.messages[0].(Envelope)
	require.True(t, ok)
	_, err := uuid.Parse(envelope.ID)
	assert.NoError(t, err)
	assert.Equal(t, "customer", envelope.RecipientKind)
	assert.Equal(t, int64(7), envelope.RecipientID)
	assert.Equal(t, "K7Q2ZD9M", envelope.Data["code"])
}

func TestBrokerSink_NotifyError(t *testing.T) {
	errBroker := errors.New("channel closed")
	sink := NewBrokerSink(&recordingPublisher{err: errBroker})

	err := sink.Notify(context.Background(), domain.Notification{TemplateKey: domain.TemplateBookingCompleted})
	assert.ErrorIs(t, err, errBroker)
}
