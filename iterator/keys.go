package iterator

import (
	"reflect"
	"slices"
	"strconv"

	"facette.io/natsort"
)

// parseKey converts a property name or a decoded document key into K.
// Integer keys must be plain base-10 text that fits the key's width.
func parseKey[K Key](text string) (K, bool) {
	var key K

	rv := reflect.ValueOf(&key).Elem()

	switch rv.Kind() { //nolint:exhaustive
	case reflect.String:
		rv.SetString(text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, rv.Type().Bits())
		if err != nil {
			return key, false
		}

		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, rv.Type().Bits())
		if err != nil {
			return key, false
		}

		rv.SetUint(n)
	default:
		return key, false
	}

	return key, true
}

// formatKey is the inverse of parseKey. It ignores any String method on K so
// that encoded keys always parse back to the same key.
func formatKey[K Key](key K) string {
	rv := reflect.ValueOf(key)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		return rv.String()
	}
}

func isStringKey[K Key]() bool {
	var key K

	return reflect.ValueOf(key).Kind() == reflect.String
}

// sortNatural orders keys in place: string keys in natural order ("item2"
// before "item10"), integer keys numerically.
func sortNatural[K Key](keys []K) {
	if !isStringKey[K]() {
		slices.Sort(keys)

		return
	}

	byText := make(map[string]K, len(keys))
	texts := make([]string, 0, len(keys))

	for _, key := range keys {
		text := formatKey(key)
		byText[text] = key
		texts = append(texts, text)
	}

	natsort.Sort(texts)

	for i, text := range texts {
		keys[i] = byText[text]
	}
}
