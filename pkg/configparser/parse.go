package configparser

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var ErrNotStructPointer = errors.New("config must be a non-nil pointer to a struct")

// ParseEnv walks the struct pointed to by cfg and fills every field carrying an
// `env` tag from the environment, falling back to the `default` tag when the
// variable is unset. Nested structs are walked recursively.
func ParseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrNotStructPointer
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return parseStruct(v)
}

func parseStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := parseStruct(field); err != nil {
				return err
			}
			continue
		}

		envName := t.Field(i).Tag.Get("env")
		if envName == "" {
			continue
		}

		raw := os.Getenv(envName)
		if raw == "" {
			raw = t.Field(i).Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := setField(field, raw); err != nil {
			return fmt.Errorf("field %s (%s): %w", t.Field(i).Name, envName, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	// time.Duration is an int64 underneath, handle it before the int case.
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", raw, err)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}

	return nil
}
