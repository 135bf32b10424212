package cf

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Load binds the values in data onto the exported fields of the struct pointed to by cf. Keys are taken from the
// `cf:"..."` field tag, falling back to the field name. Keys missing from data leave the field untouched.
//
func Load(data map[string]interface{}, cf interface{}) error {
	cfV := reflect.ValueOf(cf)
	if cfV.Kind() != reflect.Ptr || cfV.IsNil() {
		return errors.Errorf("cf type [%s] not a struct pointer", reflect.TypeOf(cf))
	}
	cfV = cfV.Elem()
	if cfV.Kind() != reflect.Struct {
		return errors.Errorf("cf type [%s] not struct", cfV.Type())
	}
	known := make(map[string]struct{})
	for i := 0; i < cfV.NumField(); i++ {
		field := cfV.Field(i)
		if !field.CanSet() {
			continue
		}
		key := keyName(cfV.Type().Field(i))
		known[key] = struct{}{}
		v, found := data[key]
		if !found {
			continue
		}
		if err := set(key, field, v); err != nil {
			return err
		}
	}
	var unknown []string
	for k := range data {
		if _, found := known[k]; !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Errorf("unknown keys [%s]", strings.Join(unknown, ", "))
	}
	return nil
}

func set(key string, field reflect.Value, v interface{}) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		if j, ok := v.(int); ok {
			field.SetInt(int64(j))
			return nil
		}

	case reflect.Float64:
		switch f := v.(type) {
		case float64:
			field.SetFloat(f)
			return nil
		case int:
			field.SetFloat(float64(f))
			return nil
		}

	case reflect.Bool:
		if b, ok := v.(bool); ok {
			field.SetBool(b)
			return nil
		}

	case reflect.String:
		if s, ok := v.(string); ok {
			field.SetString(s)
			return nil
		}

	case reflect.Map:
		if m, ok := v.(map[string]interface{}); ok && field.Type() == reflect.TypeOf(m) {
			field.Set(reflect.ValueOf(m))
			return nil
		}

	default:
		return errors.Errorf("unsupported field type [%s]", field.Type())
	}
	return errors.Errorf("field '%s' type mismatch, got [%s], expected [%s]", key, reflect.TypeOf(v), field.Type())
}

// Dump renders the bound fields of cf, one key per line.
//
func Dump(label string, cf interface{}) string {
	cfV := reflect.ValueOf(cf)
	if cfV.Kind() == reflect.Ptr {
		cfV = cfV.Elem()
	}
	if cfV.Kind() != reflect.Struct {
		return ""
	}
	out := label + " {\n"
	format := fmt.Sprintf("\t%%-%ds %%v\n", maxKeyLength(cfV))
	for i := 0; i < cfV.NumField(); i++ {
		if cfV.Field(i).CanInterface() {
			key := keyName(cfV.Type().Field(i))
			out += fmt.Sprintf(format, key, cfV.Field(i).Interface())
		}
	}
	out += "}"
	return out
}

func keyName(v reflect.StructField) string {
	key := v.Name
	tag := v.Tag.Get("cf")
	if tag != "" {
		key = tag
	}
	return key
}

func maxKeyLength(cfV reflect.Value) int {
	maxKeyLength := 0
	for i := 0; i < cfV.NumField(); i++ {
		key := keyName(cfV.Type().Field(i))
		keyLength := len(key)
		if keyLength > maxKeyLength {
			maxKeyLength = keyLength
		}
	}
	return maxKeyLength
}
