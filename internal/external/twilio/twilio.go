package twilio

import (
	_twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/zeebo/errs"
)

var twilioErr = errs.Class("twilio")

type Client struct {
	AccountSid string
	Token      string

	tc *_twilio.RestClient
}

func (c *Client) client() *_twilio.RestClient {
	if c.tc == nil {
		c.tc = _twilio.NewRestClientWithParams(_twilio.ClientParams{
			Username: c.AccountSid,
			Password: c.Token,
		})
	}

	return c.tc
}

// SendMessage sends msg as an SMS and returns the message sid.
func (c *Client) SendMessage(from, to, msg string) (_ string, genErr error) {
	defer func() {
		genErr = twilioErr.Wrap(genErr)
	}()

	if from == "" || to == "" || msg == "" {
		return "", errs.New("none of the parameters can be empty")
	}

	ps := &twilioApi.CreateMessageParams{}
	ps.SetFrom(from)
	ps.SetTo(to)
	ps.SetBody(msg)

	message, err := c.client().Api.CreateMessage(ps)
	if err != nil {
		return "", errs.Wrap(err)
	}

	if message.Sid == nil {
		return "", nil
	}

	return *message.Sid, nil
}
