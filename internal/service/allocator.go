package service

import (
	"context"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DefaultAllocationAttempts = 5

// ErrSequenceExhausted means every attempt produced a code that was already taken.
var ErrSequenceExhausted = errors.New("code sequence exhausted")

// CodeAllocator hands out unique codes per family. Allocate must be called with
// the transaction that will insert the coded entity, so the counter advance and
// the insert commit or roll back together.
type CodeAllocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, family model.CodeFamily) (string, error)
}

type codeAllocator struct {
	seqRepo     repository.SequenceRepository
	maxAttempts int
}

func NewCodeAllocator(seqRepo repository.SequenceRepository, maxAttempts int) CodeAllocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultAllocationAttempts
	}
	return &codeAllocator{seqRepo: seqRepo, maxAttempts: maxAttempts}
}

func (a *codeAllocator) Allocate(ctx context.Context, tx *gorm.DB, family model.CodeFamily) (string, error) {
	if !family.Valid() {
		return "", errors.Errorf("unknown code family %q", family)
	}

	seqs := a.seqRepo.WithTx(tx)
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		seq, err := seqs.Next(ctx, family)
		if err != nil {
			return "", errors.Wrapf(err, "advance %s sequence", family)
		}

		code := family.Format(seq)
		taken, err := seqs.CodeInUse(ctx, family, code)
		if err != nil {
			return "", errors.Wrapf(err, "check %s code %s", family, code)
		}
		if !taken {
			return code, nil
		}

		log.WithFields(log.Fields{
			"family":  family,
			"code":    code,
			"attempt": attempt,
		}).Warn("allocated code already in use, advancing counter")
	}

	return "", errors.Wrapf(ErrSequenceExhausted, "%s after %d attempts", family, a.maxAttempts)
}
