package dbmysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrSecretNotFound = errors.New("secret not found")

// Secret is one entry in the keyed secret-configuration store, e.g. the mail
// relay API key and endpoint under the name "mailgun".
type Secret struct {
	Name string `gorm:"primaryKey;column:name;size:50"`
	Key  string `gorm:"column:secret_key;not null;size:255"`
	URL  string `gorm:"column:url;size:255"`
}

func (Secret) TableName() string {
	return "secrets"
}

type SecretRepository interface {
	ByName(ctx context.Context, name string) (*Secret, error)
}

type secretRepository struct {
	db *gorm.DB
}

func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &secretRepository{db: db}
}

func (r *secretRepository) ByName(ctx context.Context, name string) (*Secret, error) {
	var secret Secret
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&secret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to load secret %s: %w", name, err)
	}

	return &secret, nil
}
