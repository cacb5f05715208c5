package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decodeSection decodes a document section into out, rejecting unknown keys and
// reporting every required key that is absent, null or an empty string. A key is
// optional when its mapstructure tag carries ",omitempty".
func decodeSection(name string, section map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(section); err != nil {
		return fmt.Errorf("section %q: %w", name, err)
	}

	required := requiredKeys(reflect.TypeOf(out).Elem())
	decoded := reflect.ValueOf(out).Elem()
	var missing []string
	for key, idx := range required {
		raw, present := section[key]
		if !present || raw == nil {
			missing = append(missing, key)
			continue
		}
		if f := decoded.Field(idx); f.Kind() == reflect.String && f.String() == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("section %q: missing required keys %s", name, strings.Join(missing, ", "))
	}
	return nil
}

// requiredKeys maps every required key to its field index.
func requiredKeys(t reflect.Type) map[string]int {
	keys := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		optional := false
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				optional = true
			}
		}
		if !optional {
			keys[parts[0]] = i
		}
	}
	return keys
}
