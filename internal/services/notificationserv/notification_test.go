package notificationserv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devsquad/momo-sms-etl/internal/types"
)

type sentMessage struct {
	From, To, Body string
}

type fakeSMSClient struct {
	sent []sentMessage
	err  error
}

func (f *fakeSMSClient) SendMessage(from, to, msg string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	f.sent = append(f.sent, sentMessage{From: from, To: to, Body: msg})
	return "SM123", nil
}

var summary = types.RunSummary{
	Status:    types.Success,
	Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	Records:   3,
	Generated: 1,
}

func Test_NotifyRunSendsSummary(t *testing.T) {
	client := &fakeSMSClient{}
	n := NotificationService{SMSClient: client, FromNumber: "+1555", ToNumber: "+250788"}

	assert.NoError(t, n.NotifyRun(context.Background(), summary))
	assert.Equal(t, []sentMessage{{
		From: "+1555",
		To:   "+250788",
		Body: "2024-05-10 || wrote 3 records (1 generated ids) || success",
	}}, client.sent)
}

func Test_NotifyRunReturnsClientError(t *testing.T) {
	boom := errors.New("boom")
	n := NotificationService{SMSClient: &fakeSMSClient{err: boom}}

	assert.ErrorIs(t, n.NotifyRun(context.Background(), summary), boom)
}
