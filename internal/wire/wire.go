//go:build wireinject
// +build wireinject

package wire

import (
	"assistant/internal/api"
	"assistant/internal/dbmysql"
	"assistant/internal/session"
	"assistant/internal/user"

	"github.com/google/wire"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		dbmysql.NewMySQL,
		dbmysql.NewNotificationRepository,
		dbmysql.NewSecretRepository,
		user.NewUserRepository,
		ProvideUserService,
		session.NewStore,
		ProvideProcessor,
		ProvideChannels,
		ProvideNotificationHandler,
		api.NewHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
