package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"assistant/internal/common"
	"assistant/internal/dbmysql"
	"assistant/internal/notify"
)

var ErrInvalidCredentials = errors.New("invalid username/password combination")

// Registration carries the fields required to create a new account
type Registration struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	City      string
	State     string
	Country   string
	SignupIP  string
}

// immutableSettings cannot be changed through UpdateSettings
var immutableSettings = map[string]bool{
	"username":      true,
	"admin":         true,
	"id":            true,
	"user_token":    true,
	"notifications": true,
	"password":      true,
}

type UserService interface {
	Register(ctx context.Context, reg Registration) (*dbmysql.User, string, error)
	Authenticate(ctx context.Context, username, password string) (*dbmysql.User, error)
	UpdateSettings(ctx context.Context, username, password string, settings map[string]string) error
	View(ctx context.Context, username string) (notify.UserView, error)
}

type userService struct {
	userRepo UserRepository
	admins   map[string]bool
}

func NewUserService(userRepo UserRepository, admins []string) UserService {
	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[a] = true
	}
	return &userService{userRepo: userRepo, admins: adminSet}
}

func (s *userService) Register(ctx context.Context, reg Registration) (*dbmysql.User, string, error) {
	if err := common.ValidateUsername(reg.Username); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(reg.Password); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(reg.Email); err != nil {
		return nil, "", err
	}
	if !common.CheckFields(reg.FirstName, reg.LastName, reg.City, reg.Country, reg.State) {
		return nil, "", errors.New("invalid input")
	}

	exists, err := s.userRepo.CheckUserExists(ctx, reg.Username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("username %s is already taken", reg.Username)
	}

	hashed, err := common.HashPassword(reg.Password)
	if err != nil {
		return nil, "", err
	}

	// Every new account starts with email reminders enabled
	scopes, err := json.Marshal([]string{"email"})
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Username:      reg.Username,
		PasswordHash:  hashed,
		FirstName:     reg.FirstName,
		LastName:      reg.LastName,
		Email:         reg.Email,
		City:          reg.City,
		State:         reg.State,
		Country:       reg.Country,
		Admin:         s.admins[reg.Username],
		DefaultPlugin: "search",
		NewsSite:      "http://reuters.com",
		TempUnit:      "fahrenheit",
		Notifications: string(scopes),
		SignupIP:      reg.SignupIP,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := common.GenerateUserToken(user.UserID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*dbmysql.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateSettings authenticates the user and applies the submitted settings.
// Immutable settings are skipped; unknown setting names are an error.
func (s *userService) UpdateSettings(ctx context.Context, username, password string, settings map[string]string) error {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	for name, value := range settings {
		if immutableSettings[name] {
			continue
		}
		if err := applySetting(user, name, value); err != nil {
			return err
		}
	}

	return s.userRepo.UpdateUser(ctx, user)
}

func applySetting(user *dbmysql.User, name, value string) error {
	switch name {
	case "first_name":
		user.FirstName = value
	case "last_name":
		user.LastName = value
	case "email":
		if err := common.ValidateEmail(value); err != nil {
			return err
		}
		user.Email = value
	case "city":
		user.City = value
	case "state":
		user.State = value
	case "country":
		user.Country = value
	case "default_plugin":
		user.DefaultPlugin = value
	case "news_site":
		user.NewsSite = value
	case "temp_unit":
		user.TempUnit = value
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

// View returns the read-only slice of a user record that notification
// delivery borrows.
func (s *userService) View(ctx context.Context, username string) (notify.UserView, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return notify.UserView{}, err
	}

	return notify.UserView{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Settings: map[string]string{
			"email": user.Email,
		},
	}, nil
}
