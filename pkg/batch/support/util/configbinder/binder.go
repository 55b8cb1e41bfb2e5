// Package configbinder decodes loosely typed configuration maps (as produced by YAML
// unmarshalling into map[string]interface{}) into typed structs.
package configbinder

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// BindProperties decodes properties into target using the "yaml" struct tags.
// Weakly typed input is allowed, so "5432" binds to an int field and "true" to a bool,
// which is what values coming from environment variables look like.
func BindProperties(properties interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(properties); err != nil {
		targetType := reflect.TypeOf(target)
		if targetType.Kind() == reflect.Ptr {
			targetType = targetType.Elem()
		}
		return fmt.Errorf("failed to bind properties to %s: %w", targetType.Name(), err)
	}
	return nil
}

// BindNamed looks up name in a map of named configurations and binds the entry to target.
func BindNamed(configs map[string]interface{}, name string, target interface{}) error {
	raw, ok := configs[name]
	if !ok {
		return fmt.Errorf("configuration '%s' not found", name)
	}
	return BindProperties(raw, target)
}
