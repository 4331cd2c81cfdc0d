package components

import (
	"storefront/internal/infra/uow"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// All repositories are reached through the unit of work, which
		// binds them to either the pool or an open transaction.
		uow.NewPostgresUoW,
	),
)
