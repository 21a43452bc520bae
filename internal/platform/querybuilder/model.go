package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel starts an insert from the exported `db`-tagged fields of a
// struct, in declaration order.
func InsertModel(table string, model any) (*InsertBuilder, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	builder := InsertInto(table)
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		builder.Value(col, value.Field(i).Interface())
	}

	if len(builder.columns) == 0 {
		return nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return builder, nil
}
