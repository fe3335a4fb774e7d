package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UserID       uint64 `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Username     string `gorm:"column:username;uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	FirstName    string `gorm:"column:first_name;size:100" json:"first_name"`
	LastName     string `gorm:"column:last_name;size:100" json:"last_name"`
	Email        string `gorm:"column:email;size:255" json:"email"`
	City         string `gorm:"column:city;size:100" json:"city"`
	State        string `gorm:"column:state;size:100" json:"state"`
	Country      string `gorm:"column:country;size:100" json:"country"`
	Admin        bool   `gorm:"column:admin;default:false" json:"admin"`

	// Assistant preferences, seeded with defaults at registration
	DefaultPlugin string `gorm:"column:default_plugin;size:50;default:'search'" json:"default_plugin"`
	NewsSite      string `gorm:"column:news_site;size:255" json:"news_site"`
	TempUnit      string `gorm:"column:temp_unit;size:20;default:'fahrenheit'" json:"temp_unit"`

	// Notifications holds the enabled delivery scopes as a JSON array,
	// e.g. ["email"]
	Notifications string `gorm:"column:notifications;type:text" json:"notifications"`

	// SignupIP is the remote address the registration request came from
	SignupIP string `gorm:"column:signup_ip;size:64" json:"-"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
