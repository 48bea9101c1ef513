package model

import (
	"fmt"
	"time"
)

// CodeFamily is a class of entities sharing one monotonic counter and code format.
type CodeFamily string

const (
	FamilyChain          CodeFamily = "chain"
	FamilyBraceletAnklet CodeFamily = "bracelet-anklet"
	FamilyOrder          CodeFamily = "order"
)

var codePrefixes = map[CodeFamily]string{
	FamilyChain:          "CH",
	FamilyBraceletAnklet: "BR",
	FamilyOrder:          "ORD",
}

// AllFamilies lists every family that owns a counter row.
var AllFamilies = []CodeFamily{FamilyChain, FamilyBraceletAnklet, FamilyOrder}

func (f CodeFamily) Valid() bool {
	_, ok := codePrefixes[f]
	return ok
}

func (f CodeFamily) Prefix() string {
	return codePrefixes[f]
}

// Format renders seq with at least three zero-padded digits: CH001, BR042, ORD1000.
func (f CodeFamily) Format(seq int64) string {
	return fmt.Sprintf("%s%03d", f.Prefix(), seq)
}

// IsProduct reports whether codes of this family live on products.
func (f CodeFamily) IsProduct() bool {
	return f == FamilyChain || f == FamilyBraceletAnklet
}

// CodeSequence holds the last issued value for one family. Only the allocator mutates it.
type CodeSequence struct {
	Family          CodeFamily `gorm:"type:varchar(30);primaryKey" json:"family"`
	CurrentSequence int64      `gorm:"not null;default:0;check:current_sequence >= 0" json:"current_sequence"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (CodeSequence) TableName() string {
	return "code_sequences"
}
