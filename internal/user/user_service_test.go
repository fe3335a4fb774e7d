package user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"assistant/internal/common"
	"assistant/internal/dbmysql"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		Username:  "holden",
		Password:  "Password123",
		FirstName: "James",
		LastName:  "Holden",
		Email:     "holden@example.com",
		City:      "Montana",
		State:     "MT",
		Country:   "USA",
		SignupIP:  "203.0.113.7",
	}
}

func TestUserService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo, []string{"admin_user"})
	ctx := context.Background()

	tests := []struct {
		name        string
		mutate      func(r *Registration)
		setup       func()
		wantErr     bool
		errContains string
	}{
		{
			name:   "success",
			mutate: func(r *Registration) {},
			setup: func() {
				mockUserRepo.EXPECT().CheckUserExists(ctx, "holden").Return(false, nil)
				mockUserRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u *dbmysql.User) error {
						u.UserID = 1
						return nil
					})
			},
		},
		{
			name:   "duplicate username",
			mutate: func(r *Registration) {},
			setup: func() {
				mockUserRepo.EXPECT().CheckUserExists(ctx, "holden").Return(true, nil)
			},
			wantErr:     true,
			errContains: "taken",
		},
		{
			name:        "invalid username",
			mutate:      func(r *Registration) { r.Username = "!" },
			setup:       func() {},
			wantErr:     true,
			errContains: "username",
		},
		{
			name:        "invalid email",
			mutate:      func(r *Registration) { r.Email = "not-an-email" },
			setup:       func() {},
			wantErr:     true,
			errContains: "email",
		},
		{
			name:        "short password",
			mutate:      func(r *Registration) { r.Password = "abc" },
			setup:       func() {},
			wantErr:     true,
			errContains: "password",
		},
		{
			name:        "empty first name",
			mutate:      func(r *Registration) { r.FirstName = "  " },
			setup:       func() {},
			wantErr:     true,
			errContains: "invalid input",
		},
		{
			name:   "repo failure on exists check",
			mutate: func(r *Registration) {},
			setup: func() {
				mockUserRepo.EXPECT().CheckUserExists(ctx, "holden").Return(false, errors.New("db is down"))
			},
			wantErr:     true,
			errContains: "db is down",
		},
		{
			name:   "repo failure on create",
			mutate: func(r *Registration) {},
			setup: func() {
				mockUserRepo.EXPECT().CheckUserExists(ctx, "holden").Return(false, nil)
				mockUserRepo.EXPECT().CreateUser(ctx, gomock.Any()).Return(errors.New("create fail"))
			},
			wantErr:     true,
			errContains: "create fail",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := validRegistration()
			tc.mutate(&reg)
			tc.setup()

			created, token, err := svc.Register(ctx, reg)
			if tc.wantErr {
				require.Error(t, err)
				if tc.errContains != "" {
					require.Contains(t, err.Error(), tc.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, created)
			require.NotEmpty(t, token)

			// Stored hash must verify against the submitted password
			require.NoError(t, common.CheckPassword(reg.Password, created.PasswordHash))

			// Defaults seeded at registration
			require.Equal(t, "search", created.DefaultPlugin)
			require.Equal(t, "fahrenheit", created.TempUnit)
			require.Equal(t, "http://reuters.com", created.NewsSite)
			require.Equal(t, "203.0.113.7", created.SignupIP)
			require.False(t, created.Admin)

			var scopes []string
			require.NoError(t, json.Unmarshal([]byte(created.Notifications), &scopes))
			require.Equal(t, []string{"email"}, scopes)

			claims, err := common.ValidToken(token)
			require.NoError(t, err)
			require.Equal(t, "holden", claims.Username)
		})
	}
}

func TestUserService_Register_AdminFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo, []string{"admin_user"})
	ctx := context.Background()

	reg := validRegistration()
	reg.Username = "admin_user"

	mockUserRepo.EXPECT().CheckUserExists(ctx, "admin_user").Return(false, nil)
	mockUserRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *dbmysql.User) error {
			u.UserID = 2
			return nil
		})

	created, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)
	require.True(t, created.Admin)
}

func TestUserService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo, nil)
	ctx := context.Background()

	hash, err := common.HashPassword("Password123")
	require.NoError(t, err)
	stored := &dbmysql.User{UserID: 1, Username: "holden", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)

		got, err := svc.Authenticate(ctx, "holden", "Password123")
		require.NoError(t, err)
		require.Equal(t, "holden", got.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)

		_, err := svc.Authenticate(ctx, "holden", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "ghost").Return(nil, errors.New("record not found"))

		_, err := svc.Authenticate(ctx, "ghost", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_UpdateSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo, nil)
	ctx := context.Background()

	hash, err := common.HashPassword("Password123")
	require.NoError(t, err)

	newUser := func() *dbmysql.User {
		return &dbmysql.User{
			UserID:       1,
			Username:     "holden",
			PasswordHash: hash,
			Email:        "holden@example.com",
			City:         "Montana",
		}
	}

	t.Run("applies mutable settings", func(t *testing.T) {
		stored := newUser()
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)
		mockUserRepo.EXPECT().UpdateUser(ctx, stored).Return(nil)

		err := svc.UpdateSettings(ctx, "holden", "Password123", map[string]string{
			"city":      "Ceres",
			"temp_unit": "celsius",
		})
		require.NoError(t, err)
		require.Equal(t, "Ceres", stored.City)
		require.Equal(t, "celsius", stored.TempUnit)
	})

	t.Run("immutable settings are skipped", func(t *testing.T) {
		stored := newUser()
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)
		mockUserRepo.EXPECT().UpdateUser(ctx, stored).Return(nil)

		err := svc.UpdateSettings(ctx, "holden", "Password123", map[string]string{
			"username": "hijacked",
			"admin":    "true",
			"password": "pwned",
			"city":     "Ceres",
		})
		require.NoError(t, err)
		require.Equal(t, "holden", stored.Username)
		require.False(t, stored.Admin)
		require.Equal(t, "Ceres", stored.City)
		require.NoError(t, common.CheckPassword("Password123", stored.PasswordHash))
	})

	t.Run("unknown setting rejected", func(t *testing.T) {
		stored := newUser()
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)

		err := svc.UpdateSettings(ctx, "holden", "Password123", map[string]string{
			"shoe_size": "11",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown setting")
	})

	t.Run("invalid new email rejected", func(t *testing.T) {
		stored := newUser()
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(stored, nil)

		err := svc.UpdateSettings(ctx, "holden", "Password123", map[string]string{
			"email": "nope",
		})
		require.Error(t, err)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(newUser(), nil)

		err := svc.UpdateSettings(ctx, "holden", "wrong", map[string]string{"city": "Ceres"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_View(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.EXPECT().GetUserByUsername(ctx, "holden").Return(&dbmysql.User{
		Username:  "holden",
		FirstName: "James",
		LastName:  "Holden",
		Email:     "holden@example.com",
	}, nil)

	view, err := svc.View(ctx, "holden")
	require.NoError(t, err)
	require.Equal(t, "holden", view.Username)
	require.Equal(t, "James", view.FirstName)
	require.Equal(t, "Holden", view.LastName)
	require.Equal(t, "holden@example.com", view.Settings["email"])
}
