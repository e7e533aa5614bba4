// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// TracingKey is the Viper subkey under which pipeline configuration is
// expected.  Sub uses this key; FromViper does not assume it.
const TracingKey = "tracing"

// Sub returns the standard child Viper for this package.  If passed nil,
// this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(TracingKey)
	}

	return nil
}

// scalarToStringHookFunc lets scalar configuration values, such as a bare
// numeric level, unmarshal into string fields.
func scalarToStringHookFunc(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String || from.Kind() == reflect.String {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cast.ToStringE(data)
	default:
		return data, nil
	}
}

// FromViper produces an Options from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			scalarToStringHookFunc,
		))

		if err := v.Unmarshal(o, decodeHook); err != nil {
			return nil, err
		}
	}

	return o, nil
}
