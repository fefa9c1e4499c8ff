package playstore

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/rotisserie/eris"
)

// Params is the opaque option bag an operation receives. Keys follow the
// camelCase names callers send (appId, fullDetail, nextPaginationToken, ...).
type Params map[string]any

// Locale is accepted by every operation.
type Locale struct {
	Lang    string `mapstructure:"lang"`
	Country string `mapstructure:"country"`
}

// decodeOptions fills out from params. Query-string callers send every value
// as a string, so decoding is weakly typed ("20" -> 20, "true" -> true).
func (c *Client) decodeOptions(params Params, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           out,
	})
	if err != nil {
		return eris.Wrap(err, "build option decoder")
	}
	if err := dec.Decode(map[string]any(params)); err != nil {
		return invalidOption("invalid options: %v", err)
	}
	return nil
}

func (c *Client) locale(opts Locale) Locale {
	if opts.Lang == "" {
		opts.Lang = c.cfg.DefaultLang
	}
	if opts.Country == "" {
		opts.Country = c.cfg.DefaultCountry
	}
	return opts
}
