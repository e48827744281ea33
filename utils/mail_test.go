package utils

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_SendHTML(t *testing.T) {
	m := NewMailer("shop@farm.test", "pw", "smtp.farm.test", "smtp.farm.test:587")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.SendHTML(context.Background(), "buyer@farm.test", "Receipt\r\nBcc: x@evil.test", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "smtp.farm.test:587", gotAddr)
	assert.Equal(t, "shop@farm.test", gotFrom)
	assert.Equal(t, []string{"buyer@farm.test"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Receipt  Bcc: x@evil.test\r\n")
	assert.Contains(t, string(gotMsg), "<p>hi</p>")
}

func TestMailer_Errors(t *testing.T) {
	unconfigured := NewMailer("", "", "", "")
	assert.Error(t, unconfigured.SendHTML(context.Background(), "a@b.test", "s", "b"))

	m := NewMailer("shop@farm.test", "pw", "h", "h:25")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	err := m.SendHTML(context.Background(), "a@b.test", "s", "b")
	assert.ErrorContains(t, err, "relay down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendHTML(ctx, "a@b.test", "s", "b"), context.Canceled)
}
