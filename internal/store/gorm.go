package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// transactionModel is the gorm mapping of a TransactionRecord.
type transactionModel struct {
	ID               uint   `gorm:"primaryKey"`
	TrackingCode     string `gorm:"size:64;uniqueIndex;not null"`
	Bank             string `gorm:"size:16;not null"`
	Amount           int64  `gorm:"not null"`
	Currency         string `gorm:"size:8;not null"`
	Status           string `gorm:"size:32;not null"`
	StatusText       string `gorm:"size:255"`
	ReferenceNumber  string `gorm:"size:128"`
	SaleReferenceID  string `gorm:"size:128"`
	ExtraInformation string `gorm:"type:text"`
	CallbackURL      string `gorm:"size:512"`
	MobileNumber     string `gorm:"size:32"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (transactionModel) TableName() string {
	return "bank_gateway_transactions"
}

func toModel(rec *gateway.TransactionRecord) transactionModel {
	return transactionModel{
		ID:               rec.ID,
		TrackingCode:     rec.TrackingCode,
		Bank:             string(rec.Bank),
		Amount:           rec.Amount,
		Currency:         string(rec.Currency),
		Status:           string(rec.Status),
		StatusText:       rec.StatusText,
		ReferenceNumber:  rec.ReferenceNumber,
		SaleReferenceID:  rec.SaleReferenceID,
		ExtraInformation: rec.ExtraInformation,
		CallbackURL:      rec.CallbackURL,
		MobileNumber:     rec.MobileNumber,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func fromModel(m transactionModel) *gateway.TransactionRecord {
	return &gateway.TransactionRecord{
		ID:               m.ID,
		TrackingCode:     m.TrackingCode,
		Bank:             gateway.BankType(m.Bank),
		Amount:           m.Amount,
		Currency:         gateway.Currency(m.Currency),
		Status:           gateway.PaymentStatus(m.Status),
		StatusText:       m.StatusText,
		ReferenceNumber:  m.ReferenceNumber,
		SaleReferenceID:  m.SaleReferenceID,
		ExtraInformation: m.ExtraInformation,
		CallbackURL:      m.CallbackURL,
		MobileNumber:     m.MobileNumber,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GormRepository persists records through gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository migrates the transactions table and returns the
// repository.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&transactionModel{}); err != nil {
		return nil, err
	}
	return &GormRepository{db: db}, nil
}

func (g *GormRepository) Create(ctx context.Context, rec *gateway.TransactionRecord) error {
	model := toModel(rec)
	if err := g.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

func (g *GormRepository) Get(ctx context.Context, trackingCode string) (*gateway.TransactionRecord, error) {
	var model transactionModel
	err := g.db.WithContext(ctx).Where("tracking_code = ?", trackingCode).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gateway.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

func (g *GormRepository) Update(ctx context.Context, rec *gateway.TransactionRecord) error {
	model := toModel(rec)
	result := g.db.WithContext(ctx).Model(&transactionModel{}).
		Where("tracking_code = ?", rec.TrackingCode).
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gateway.ErrRecordNotFound
	}
	return nil
}
