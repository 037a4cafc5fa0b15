package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestBodyParser reads a request body once and serves typed lookups
// over either JSON or form-encoded content.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, 1<<16))
	}
	return p
}

func (p *RequestBodyParser) parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	switch {
	case strings.HasPrefix(p.contentType, "application/json"):
		if len(p.body) == 0 {
			p.jsonData = map[string]interface{}{}
			return nil
		}
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
		}
	default:
		values, err := url.ParseQuery(string(p.body))
		if err != nil {
			p.err = fmt.Errorf("invalid form body: %w", err)
			return p.err
		}
		p.formData = values
	}
	return p.err
}

// GetString returns the trimmed string value for key, or "" when absent.
func (p *RequestBodyParser) GetString(key string) (string, error) {
	if err := p.parse(); err != nil {
		return "", err
	}
	if p.jsonData != nil {
		switch v := p.jsonData[key].(type) {
		case nil:
			return "", nil
		case string:
			return strings.TrimSpace(v), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		default:
			return "", fmt.Errorf("field %q has unexpected type", key)
		}
	}
	return strings.TrimSpace(p.formData.Get(key)), nil
}

// GetInt returns the integer value for key, or the fallback when absent.
func (p *RequestBodyParser) GetInt(key string, fallback int) (int, error) {
	s, err := p.GetString(key)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field %q is not a number: %w", key, err)
	}
	return n, nil
}
