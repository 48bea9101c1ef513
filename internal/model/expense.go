package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	BaseModel
	Title    string          `gorm:"type:varchar(150);not null" json:"title"`
	Category string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	SpentOn  time.Time       `gorm:"type:date;not null;index" json:"spent_on"`
	Notes    string          `gorm:"type:text" json:"notes"`
}

// CategoryTotal is one row of an expense summary.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type ExpenseSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Categories []CategoryTotal `json:"categories"`
}
