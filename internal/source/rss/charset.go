package rss

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

var xmlEncodingAttr = regexp.MustCompile(`encoding=["'][^"']*["']`)

// decodeCharset converts body from the named charset to UTF-8. The XML
// declaration is rewritten so the parser does not decode a second time.
func decodeCharset(body []byte, name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return body, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", name, err)
	}

	if bytes.HasPrefix(decoded, []byte("<?xml")) {
		if end := bytes.Index(decoded, []byte("?>")); end > 0 {
			prolog := xmlEncodingAttr.ReplaceAll(decoded[:end], []byte(`encoding="UTF-8"`))
			decoded = append(prolog, decoded[end:]...)
		}
	}

	return decoded, nil
}
