package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

const moduleName = "config"

// LoadConfig builds the configuration in four layers:
//  1. defaults from NewConfig,
//  2. the .env file (envFilePath, or ".env" in the working directory when empty), exported into the process env,
//  3. the embedded YAML after ${VAR} expansion,
//  4. environment variables named after the yaml tags (WINDCAPEX_SINK_TYPE, WINDCAPEX_PIPELINE_SOURCES, ...).
//
// The result is validated before it is returned.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return LoadConfigWithExpander(envFilePath, embeddedConfig, NewOsEnvironmentExpander())
}

// LoadConfigWithExpander is LoadConfig with an explicit placeholder expander.
func LoadConfigWithExpander(envFilePath string, embeddedConfig EmbeddedConfig, expander EnvironmentExpander) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Debugf(".env file (%s) not loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf(".env file not loaded: %v", err)
	}

	cfg := NewConfig()

	if len(embeddedConfig) > 0 {
		expanded, err := expander.Expand(embeddedConfig)
		if err != nil {
			return nil, exception.NewBatchError(moduleName, exception.KindConfig, "failed to expand environment placeholders", err)
		}
		// yaml.v3 leaves fields absent from the document untouched, so defaults survive.
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, exception.NewBatchError(moduleName, exception.KindConfig, "failed to unmarshal embedded config", err)
		}
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.NewBatchError(moduleName, exception.KindConfig, "failed to load config from environment variables", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, exception.NewBatchError(moduleName, exception.KindConfig, "invalid configuration", err)
	}
	return cfg, nil
}

// loadStructFromEnv recursively overrides struct fields from environment variables.
// The variable name is the upper-cased path of yaml tags joined by "_".
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		switch {
		case field.Kind() == reflect.Struct:
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		case field.Kind() == reflect.Map && field.Type().Key().Kind() == reflect.String && field.Type().Elem().Kind() == reflect.Interface:
			loadNamedConfigsFromEnv(field, envVarName+"_")
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// loadNamedConfigsFromEnv fills a map[string]interface{} of named adapter configs.
// WINDCAPEX_ADAPTER_DATABASE_SINK_HOST=db sets configs["sink"]["host"] = "db".
// Values stay strings; configbinder converts them weakly when the entry is decoded.
func loadNamedConfigsFromEnv(mapField reflect.Value, prefix string) {
	if mapField.IsNil() {
		mapField.Set(reflect.MakeMap(mapField.Type()))
	}
	configs := mapField.Interface().(map[string]interface{})

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(env, prefix), "=", 2)
		if len(parts) != 2 {
			continue
		}
		keyAndField := strings.SplitN(parts[0], "_", 2)
		if len(keyAndField) != 2 {
			continue
		}
		name := strings.ToLower(keyAndField[0])
		fieldName := strings.ToLower(keyAndField[1])

		entry, ok := configs[name].(map[string]interface{})
		if !ok {
			entry = map[string]interface{}{}
			// YAML may have produced a map with interface keys for nested documents.
			if existing, isMap := configs[name].(map[interface{}]interface{}); isMap {
				for k, v := range existing {
					entry[fmt.Sprint(k)] = v
				}
			}
		}
		entry[fieldName] = parts[1]
		configs[name] = entry
	}
}

// setField sets a scalar or []string field from its string form.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type %s", field.Type().Elem())
		}
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	}
	return nil
}
