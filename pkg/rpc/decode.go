package rpc

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

var addrType = reflect.TypeOf((*Addr)(nil)).Elem()

// AddrDecodeHook returns a mapstructure hook that turns the textual form
// of a network address back into an Addr when decoding merged
// configuration. Empty strings decode to no address.
func AddrDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != addrType {
			return data, nil
		}
		s := data.(string)
		if s == "" {
			return Addr(nil), nil
		}
		return ParseAddr(s)
	}
}
