package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsToResend(t *testing.T) {
	var got resendEmail
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewResendClient("re_test", "Car Rental <noreply@example.com>").WithEndpoint(srv.URL)
	msg := InvoiceMessage("ada@example.com", "INV-1", "Jeep", 440, []byte("%PDF-1.3"))
	require.NoError(t, c.Send(context.Background(), msg))

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "ada@example.com", got.To)
	assert.Equal(t, "Car Rental <noreply@example.com>", got.From)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "invoice-INV-1.pdf", got.Attachments[0].Filename)
	pdf, err := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(pdf))
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewResendClient("re_test", "from@example.com").WithEndpoint(srv.URL)
	err := c.Send(context.Background(), LoginOTPMessage("a@example.com", "123456", "http://x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendWithoutKeyPrintsMock(t *testing.T) {
	var out bytes.Buffer
	c := NewResendClient("", "from@example.com")
	c.mockOut = &out

	require.NoError(t, c.Send(context.Background(), PasswordResetMessage("a@example.com", "http://site/reset-password#x")))
	assert.Contains(t, out.String(), "MOCK EMAIL")
	assert.Contains(t, out.String(), "a@example.com")
}
