package notificationserv

import (
	"context"

	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/types"
)

type smsClient interface {
	SendMessage(from, to, msg string) (string, error)
}

// NotificationService reports finished runs by SMS.
type NotificationService struct {
	SMSClient  smsClient
	FromNumber string
	ToNumber   string
}

func (n *NotificationService) NotifyRun(ctx context.Context, summary types.RunSummary) error {
	log := logging.FromContext(ctx)

	msg := summary.String()

	sid, err := n.SMSClient.SendMessage(n.FromNumber, n.ToNumber, msg)
	if err != nil {
		log.Error("failed to send SMS",
			logging.Error(err),
			logging.String("to_number", n.ToNumber),
			logging.Int("msg_len", len(msg)),
		)
		return err
	}

	log.Debug("run summary sent", logging.String("sid", sid))

	return nil
}
