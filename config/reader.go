package config

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/a8m/envsubst"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Read reads a config from the given file, expanding environment variables first.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", filePath)
	}
	return decode(buf)
}

// FromReader reads a config from the given reader, expanding environment variables first.
func FromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf, err := envsubst.Bytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand environment variables")
	}
	return decode(buf)
}

// decode lays the attributes in buf over the defaults. Unknown attributes are an error.
func decode(buf []byte) (*Config, error) {
	var attributes map[string]interface{}
	if err := json.NewDecoder(bytes.NewReader(buf)).Decode(&attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode config from json")
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      cfg,
		ErrorUnused: true,
		DecodeHook:  unmarshalJSONHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode config attributes")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// unmarshalJSONHook decodes attributes bound for a json.Unmarshaler, such as a log level, through
// that type's own UnmarshalJSON.
func unmarshalJSONHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	target := reflect.New(to)
	unmarshaler, ok := target.Interface().(json.Unmarshaler)
	if !ok {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	if err = unmarshaler.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}
