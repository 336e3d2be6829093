package caching

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the JSON encoding of parts. Equal inputs always give the
// same value; parts are separated so ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...any) (uint64, error) {
	d := xxhash.New()
	enc := json.NewEncoder(d)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return 0, err
		}
	}
	return d.Sum64(), nil
}
