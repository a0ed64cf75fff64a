package restclient

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// FormField is one multipart form entry handed to the transport, either a
// plain value or a binary blob.
type FormField struct {
	Name  string
	Value string
	Blob  *Blob
}

// buildFormFields turns the descriptor's form map into transport fields:
// strings and blobs pass through, slices repeat the field per element, nil
// values are skipped, everything else is JSON-stringified. Field order is
// deterministic (sorted by name, elements in slice order).
func buildFormFields(form map[string]any) ([]FormField, error) {
	if len(form) == 0 {
		return nil, nil
	}
	var fields []FormField
	for _, name := range sortedKeys(form) {
		if err := appendFormValue(&fields, name, form[name]); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func appendFormValue(fields *[]FormField, name string, value any) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		*fields = append(*fields, FormField{Name: name, Value: v})
		return nil
	case Blob:
		*fields = append(*fields, FormField{Name: name, Blob: &v})
		return nil
	case *Blob:
		if v != nil {
			*fields = append(*fields, FormField{Name: name, Blob: v})
		}
		return nil
	case []byte:
		*fields = append(*fields, FormField{Name: name, Blob: &Blob{Data: v}})
		return nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := appendFormValue(fields, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return appendFormValue(fields, name, rv.Elem().Interface())
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode form field %q: %w", name, err)
	}
	*fields = append(*fields, FormField{Name: name, Value: string(raw)})
	return nil
}
