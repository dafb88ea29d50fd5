package database

import (
	"context"

	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// Get returns the stored contact record, or gorm.ErrRecordNotFound when none was saved yet
func (r *ContactRepo) Get(ctx context.Context) (models.ContactInfo, error) {
	var row ContactRow
	if err := r.db.WithContext(ctx).First(&row, ContactRowID).Error; err != nil {
		return models.ContactInfo{}, err
	}
	return row.toModel(), nil
}

// Save replaces the contact record, creating it on first use
func (r *ContactRepo) Save(ctx context.Context, contact models.ContactInfo) (models.ContactInfo, error) {
	row := contactRowFrom(contact)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return models.ContactInfo{}, err
	}
	return r.Get(ctx)
}
