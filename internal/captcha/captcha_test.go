package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T, body map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func cfgFor(url string) *config.Captcha {
	return &config.Captcha{
		Enabled:   true,
		Secret:    "shh",
		VerifyURL: url,
		MinScore:  0.5,
		Timeout:   2 * time.Second,
	}
}

func TestVerifyAcceptsHighScore(t *testing.T) {
	srv := siteverify(t, map[string]interface{}{"success": true, "score": 0.9})
	err := NewVerifier(cfgFor(srv.URL)).Verify(context.Background(), "tok", "10.0.0.1")
	assert.NoError(t, err)
}

func TestVerifyRejectsLowScore(t *testing.T) {
	srv := siteverify(t, map[string]interface{}{"success": true, "score": 0.1})
	err := NewVerifier(cfgFor(srv.URL)).Verify(context.Background(), "tok", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestVerifyRejectsMissingScore(t *testing.T) {
	srv := siteverify(t, map[string]interface{}{"success": true})
	err := NewVerifier(cfgFor(srv.URL)).Verify(context.Background(), "tok", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestVerifyRejectsUnsuccessful(t *testing.T) {
	srv := siteverify(t, map[string]interface{}{"success": false, "error-codes": []string{"invalid-input-response"}})
	err := NewVerifier(cfgFor(srv.URL)).Verify(context.Background(), "tok", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	cfg := cfgFor("http://127.0.0.1:1")
	cfg.Secret = ""
	err := NewVerifier(cfg).Verify(context.Background(), "tok", "")
	assert.True(t, apperror.IsKind(err, apperror.KindServiceUnavailable))
}

func TestVerifyUnreachableServiceIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewVerifier(cfgFor(url)).Verify(context.Background(), "tok", "")
	assert.True(t, apperror.IsKind(err, apperror.KindServiceUnavailable))
}

func TestVerifyReadsConfigAtCallTime(t *testing.T) {
	cfg := cfgFor("http://127.0.0.1:1")
	cfg.Secret = ""
	v := NewVerifier(cfg)

	require.Error(t, v.Verify(context.Background(), "tok", ""))

	cfg.Enabled = false
	assert.NoError(t, v.Verify(context.Background(), "", ""))
}

func TestVerifyRequiresToken(t *testing.T) {
	err := NewVerifier(cfgFor("http://127.0.0.1:1")).Verify(context.Background(), "  ", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "captcha_token", appErr.Details[0].Field)
}
