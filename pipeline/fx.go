// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"

	"github.com/spf13/viper"
	"github.com/xmidt-org/tracekit/appender"
	"go.uber.org/fx"
)

// Provide exports the assembled collector and its guard to an fx
// application.  *Options must be supplied elsewhere in the graph; see
// ProvideFromViper.  The guard's drain is registered as a lifecycle stop
// hook, so buffered output is flushed at shutdown.
func Provide() fx.Option {
	return fx.Options(
		fx.Provide(New),
		fx.Invoke(registerGuard),
	)
}

// ProvideFromViper is Provide plus an *Options derived from an injected
// *viper.Viper, using the standard "tracing" subkey.
func ProvideFromViper() fx.Option {
	return fx.Options(
		fx.Provide(func(v *viper.Viper) (*Options, error) {
			return FromViper(Sub(v))
		}),
		Provide(),
	)
}

func registerGuard(lc fx.Lifecycle, guard *appender.Guard) {
	if guard == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			guard.Stop()
			return nil
		},
	})
}
