package dbmysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NotificationRecord is the durable form of a scheduled notification. Only
// notifications due more than five minutes out are written here; near-term
// ones live purely in memory until they fire.
type NotificationRecord struct {
	UID         string    `gorm:"primaryKey;column:uid;size:36"`
	Message     string    `gorm:"column:message;not null;type:text"`
	Title       string    `gorm:"column:title;not null;size:255"`
	TriggerTime int64     `gorm:"column:trigger_time;not null;index"`
	Scope       string    `gorm:"column:scope;not null;size:50"`
	Created     time.Time `gorm:"column:created"`
	Summary     string    `gorm:"column:summary;size:255"`
	UserID      string    `gorm:"column:user_id;not null;index;size:50"`
}

func (NotificationRecord) TableName() string {
	return "notifications"
}

type NotificationRepository interface {
	Insert(ctx context.Context, record *NotificationRecord) error
	All(ctx context.Context) ([]*NotificationRecord, error)
	Delete(ctx context.Context, uid string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// Insert writes a notification row in a single transaction; either the whole
// row is visible or nothing is.
func (r *notificationRepository) Insert(ctx context.Context, record *NotificationRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) All(ctx context.Context) ([]*NotificationRecord, error) {
	var records []*NotificationRecord

	if err := r.db.WithContext(ctx).Order("trigger_time ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	return records, nil
}

// Delete removes a notification row by uid. Missing rows are not an error:
// near-term notifications are never persisted, yet the delivery loop deletes
// unconditionally after a send attempt.
func (r *notificationRepository) Delete(ctx context.Context, uid string) error {
	if err := r.db.WithContext(ctx).Delete(&NotificationRecord{}, "uid = ?", uid).Error; err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", uid, err)
	}
	return nil
}
