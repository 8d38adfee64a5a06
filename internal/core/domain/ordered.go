package domain

import (
	"bytes"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// marshalOrdered encodes n key/value pairs as a JSON object in the given order.
func marshalOrdered[V any](n int, entry func(i int) (string, V)) ([]byte, error) {
	om := orderedmap.New[string, V]()
	for i := 0; i < n; i++ {
		om.Set(entry(i))
	}
	return om.MarshalJSON()
}

// unmarshalOrdered visits the pairs of a JSON object in document order. A
// repeated key keeps its first position and its last value. JSON null is an
// empty object.
func unmarshalOrdered[V any](data []byte, visit func(key string, value V)) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	om := orderedmap.New[string, V]()
	if err := om.UnmarshalJSON(data); err != nil {
		return err
	}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		visit(pair.Key, pair.Value)
	}
	return nil
}
