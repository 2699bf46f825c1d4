package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSendUpgradeReceipt(t *testing.T) {
	sender := &fakeSender{}
	svc := &emailService{sender: sender, senderEmail: "billing@raw.ai", frontendURL: "https://raw.ai"}

	err := svc.SendUpgradeReceipt("a@x.io", UpgradeReceipt{OrderId: "order_1", Plan: "pro", Amount: 500, Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"a@x.io"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your RAW.AI pro plan is active"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "order_1")
}

func TestSendUpgradeReceiptError(t *testing.T) {
	svc := &emailService{sender: &fakeSender{err: errors.New("smtp down")}}
	err := svc.SendUpgradeReceipt("a@x.io", UpgradeReceipt{OrderId: "order_1"})
	assert.EqualError(t, err, "smtp down")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5.00", formatAmount(500))
	assert.Equal(t, "10.05", formatAmount(1005))
}
