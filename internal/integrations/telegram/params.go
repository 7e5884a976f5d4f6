package telegram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Params are the fields of a bot api call, scalars are sent as-is
// while slices, maps and structs are sent json-encoded
type Params map[string]any

func (p Params) Values() (url.Values, error) {
	values := url.Values{}
	for key, value := range p {
		encoded, isSet, err := encodeParam(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode param[%s]: %w", key, err)
		}
		if !isSet {
			continue
		}
		values.Set(key, encoded)
	}
	return values, nil
}

func encodeParam(value any) (encoded string, isSet bool, err error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case fmt.Stringer:
		return v.String(), true, nil
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Pointer:
		if reflected.IsNil() {
			return "", false, nil
		}
		return encodeParam(reflected.Elem().Interface())
	case reflect.Slice, reflect.Map:
		if reflected.IsNil() {
			return "", false, nil
		}
	case reflect.String:
		return reflected.String(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(reflected.Int(), 10), true, nil
	case reflect.Bool:
		return strconv.FormatBool(reflected.Bool()), true, nil
	}
	asJson, err := json.Marshal(value)
	if err != nil {
		return "", false, err
	}
	return string(asJson), true, nil
}
