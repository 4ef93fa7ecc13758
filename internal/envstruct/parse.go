// Package envstruct fills tagged struct fields from environment variables.
package envstruct

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/myrjola/pfaplan/internal/errors"
)

var (
	ErrEnvNotSet    = errors.NewSentinel("environment variable not set")
	ErrInvalidValue = errors.NewSentinel("v must be a pointer to a struct")
	ErrParse        = errors.NewSentinel("environment variable has invalid value")
)

// Populate populates the fields of the pointer to struct v with values from the environment.
//
// lookupEnv is used to look up environment variables. It has the same signature as [os.LookupEnv].
// Fields in the struct v must be tagged with `env:"ENV_VAR"` where ENV_VAR is the name of the environment variable.
// If no environment variable matching ENV_VAR is provided, the field must be tagged with default value
// `envDefault:"value"` or else ErrEnvNotSet is returned. String, bool and integer fields are supported.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Pointer || ptrRef.IsNil() {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()
	var errorList []error

	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}
		if !refField.CanSet() {
			errorList = append(errorList, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, refTypeField.Name))
			continue
		}

		val, err := envLookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}
		if err = set(refField, val); err != nil {
			errorList = append(errorList, fmt.Errorf("field %s, env %s: %w", refTypeField.Name, envVarName, err))
		}
	}

	return errors.Join(errorList...)
}

func set(field reflect.Value, val string) error {
	switch field.Kind() { //nolint:exhaustive // unsupported kinds fall through to the default case
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		if val == "" {
			field.SetBool(false)
			return nil
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrParse, val)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64, reflect.Uint64:
		if val == "" {
			field.SetZero()
			return nil
		}
		if field.Kind() == reflect.Uint64 {
			u, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrParse, val)
			}
			field.SetUint(u)
			return nil
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrParse, val)
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, field.Kind())
	}
	return nil
}

func envLookupWithFallback(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	envVarValue, ok := lookupEnv(envVarName)
	if !ok {
		envVarValue, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrEnvNotSet, envVarName)
		}
	}
	return envVarValue, nil
}
