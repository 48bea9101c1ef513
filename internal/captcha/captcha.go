// Package captcha verifies human-verification tokens against a
// reCAPTCHA-compatible siteverify endpoint.
package captcha

import (
	"context"
	"net/http"
	"strings"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

type siteVerifier struct {
	cfg *config.Captcha
}

// NewVerifier reads cfg on every call, so toggling Enabled takes effect
// without rebuilding the pipeline.
func NewVerifier(cfg *config.Captcha) Verifier {
	return &siteVerifier{cfg: cfg}
}

func unavailable() *apperror.Error {
	return apperror.ServiceUnavailable("Human verification is temporarily unavailable")
}

func rejected() *apperror.Error {
	return apperror.Validation("Human verification failed", apperror.Detail{
		Field:   "captcha_token",
		Message: "verification was not accepted",
	})
}

func (v *siteVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	cfg := *v.cfg
	if !cfg.Enabled {
		log.Debug("human verification disabled by CAPTCHA_ENABLED=false")
		return nil
	}
	if cfg.Secret == "" {
		log.Error("human verification enabled but CAPTCHA_SECRET is not set")
		return unavailable()
	}
	if strings.TrimSpace(token) == "" {
		return apperror.Validation("Validation failed", apperror.Detail{Field: "captcha_token", Message: "is required"})
	}
	if err := ctx.Err(); err != nil {
		return unavailable().Wrap(err)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("secret", cfg.Secret)
	args.Set("response", token)
	if remoteIP != "" {
		args.Set("remoteip", remoteIP)
	}

	var res siteVerifyResponse
	code, _, errs := fiber.Post(cfg.VerifyURL).
		Form(args).
		Timeout(cfg.Timeout).
		Struct(&res)
	if len(errs) > 0 {
		log.WithError(errs[0]).Warn("human verification request failed")
		return unavailable().Wrap(errs[0])
	}
	if code != http.StatusOK {
		log.WithField("status", code).Warn("human verification service returned non-200")
		return unavailable().Wrap(errors.Errorf("siteverify status %d", code))
	}

	if !res.Success {
		log.WithField("error_codes", res.ErrorCodes).Info("human verification rejected token")
		return rejected()
	}
	if cfg.MinScore > 0 && (res.Score == nil || *res.Score < cfg.MinScore) {
		fields := log.Fields{"min_score": cfg.MinScore}
		if res.Score != nil {
			fields["score"] = *res.Score
		}
		log.WithFields(fields).Info("human verification score below threshold")
		return rejected()
	}
	return nil
}
