package memcache_fx

import (
	"time"

	"go.uber.org/fx"

	"tripplanner/internal/services"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(provideConfirmTokens)

func provideConfirmTokens() mem.TokenStore[*services.ConfirmRequest] {
	return mem.NewConfirmTokens[*services.ConfirmRequest](time.Minute)
}
