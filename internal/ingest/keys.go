package ingest

import "strings"

// NormalizeKey converts an external record key into a camelCase identifier.
// Runs of space, underscore, hyphen and dot act as word separators; the
// first character of the result is lowered; everything else that is not
// ASCII alphanumeric is stripped. A leading underscore survives so upstream
// identifiers like "_id" keep their shape. Idempotent.
func NormalizeKey(key string) string {
	k := strings.TrimSpace(key)
	if k == "" {
		return k
	}

	prefix := ""
	if k[0] == '_' {
		prefix = "_"
		k = strings.TrimLeft(k, "_")
	}

	var b strings.Builder
	b.Grow(len(k))
	upperNext := false
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c == ' ' || c == '_' || c == '-' || c == '.':
			upperNext = true
		case isASCIIAlnum(c):
			if b.Len() == 0 {
				b.WriteByte(asciiLower(c))
			} else if upperNext {
				b.WriteByte(asciiUpper(c))
			} else {
				b.WriteByte(c)
			}
			upperNext = false
		default:
			// Punctuation and non-ASCII are dropped. Latin-only keys are all
			// the upstream API emits; anything else is data loss we accept.
		}
	}

	return prefix + b.String()
}

// NormalizeRecordKeys returns a copy of raw with every key normalized.
// The one known nested mapping, metadata, is normalized one level deep;
// values are passed through untouched.
func NormalizeRecordKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		nk := NormalizeKey(k)
		if nested, ok := v.(map[string]any); ok && nk == "metadata" {
			m := make(map[string]any, len(nested))
			for nestedKey, nestedVal := range nested {
				m[NormalizeKey(nestedKey)] = nestedVal
			}
			out[nk] = m
			continue
		}
		out[nk] = v
	}
	return out
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func asciiUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
