package emailsvc

import (
	"net/http"
	"net/mail"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	testutil "github.com/trezcool/ratiba/tests"
)

func resetMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Alice Johnson", Address: "alice@student.edu"}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Name":     "Alice Johnson",
			"ResetURL": "http://frontend.test/password-reset/abc/def",
		},
	}
}

func TestFromAddress(t *testing.T) {
	conf := testutil.TestConfig()
	assert.Equal(t, mail.Address{Name: "Ratiba", Address: "noreply@ratiba.test"}, fromAddress(conf))

	conf.DefaultFromEmail = "not an address"
	assert.Equal(t, mail.Address{Name: "Ratiba", Address: "not an address"}, fromAddress(conf))
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	logger := new(testutil.LoggerMock)
	svc := NewConsoleServiceMock(logger, testutil.TestConfig())

	tests := []struct {
		name     string
		msg      *core.EmailMessage
		wantSent int
		wantErrs int
	}{
		{name: "templated", msg: resetMessage(), wantSent: 1},
		{
			name:     "plain body",
			msg:      &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "Hi", BodyStr: "hello"},
			wantSent: 1,
		},
		{name: "no recipient", msg: &core.EmailMessage{Subject: "Hi", BodyStr: "hello"}},
		{name: "no content", msg: &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "Hi"}},
		{
			name:     "unknown template",
			msg:      &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, TemplateName: "nope"},
			wantErrs: 1,
		},
		{
			name: "missing template data",
			msg: &core.EmailMessage{
				To:           []mail.Address{{Address: "a@b.c"}},
				TemplateName: "password_reset",
				TemplateData: map[string]interface{}{"Name": "x"},
			},
			wantErrs: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.Reset()
			before := len(logger.Messages("error"))

			svc.SendMessages(tt.msg)
			assert.Len(t, svc.SentMessages(), tt.wantSent)
			assert.Len(t, logger.Messages("error"), before+tt.wantErrs)
		})
	}
}

func TestConsoleService_format(t *testing.T) {
	svc := NewConsoleServiceMock(new(testutil.LoggerMock), testutil.TestConfig())
	msg := resetMessage()
	msg.Cc = []mail.Address{{Address: "registrar@college.edu"}}

	out, ok := svc.sendMessage(msg)
	require.True(t, ok)
	assert.Contains(t, out, `From: "Ratiba" <noreply@ratiba.test>`)
	assert.Contains(t, out, "Subject: [Ratiba] Password Reset")
	assert.Contains(t, out, `To: "Alice Johnson" <alice@student.edu>`)
	assert.Contains(t, out, "CC: <registrar@college.edu>")
	assert.NotContains(t, out, "BCC:")
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "http://frontend.test/password-reset/abc/def")
}

func TestSendgridService(t *testing.T) {
	logger := new(testutil.LoggerMock)
	conf := testutil.TestConfig()
	conf.SendgridAPIKey = "sg-key"
	svc := NewSendgridService(logger, conf).(*sendgridService)

	msg := resetMessage()
	require.NoError(t, msg.Render())

	req := svc.request(*msg)
	assert.Equal(t, rest.Post, req.Method)
	assert.Equal(t, "Bearer sg-key", req.Headers["Authorization"])
	body := string(req.Body)
	assert.Contains(t, body, `"subject":"[Ratiba] Password Reset"`)
	assert.Contains(t, body, `"email":"alice@student.edu"`)
	assert.Contains(t, body, `"email":"noreply@ratiba.test"`)

	t.Run("api error is logged", func(t *testing.T) {
		defer func(api func(rest.Request) (*rest.Response, error)) { sendgridAPI = api }(sendgridAPI)
		sendgridAPI = func(rest.Request) (*rest.Response, error) { return nil, errors.New("network down") }

		svc.send(*msg)
		errs := logger.Messages("error")
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Msg, "network down")
	})

	t.Run("bad status is logged", func(t *testing.T) {
		defer func(api func(rest.Request) (*rest.Response, error)) { sendgridAPI = api }(sendgridAPI)
		var got rest.Request
		sendgridAPI = func(r rest.Request) (*rest.Response, error) {
			got = r
			return &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, nil
		}

		svc.send(*msg)
		assert.Equal(t, host+endpoint, got.BaseURL)
		errs := logger.Messages("error")
		require.Len(t, errs, 2)
		assert.True(t, strings.HasSuffix(errs[1].Msg, "body: bad key"))
	})
}
