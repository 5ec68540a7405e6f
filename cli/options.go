package cli

import (
	"reflect"

	"github.com/alecthomas/kong"

	"go.hackfix.me/purr/xtime"
)

// DurationMapper parses durations with the extended units supported by
// xtime.ParseDuration, e.g. "1d12h".
type DurationMapper struct{}

var _ kong.Mapper = DurationMapper{}

// Decode implements the kong.Mapper interface.
func (DurationMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := kctx.Scan.PopValueInto("duration", &value)
	if err != nil {
		return err
	}

	dur, err := xtime.ParseDuration(value)
	if err != nil {
		return err
	}

	target.SetInt(int64(dur))

	return nil
}
