package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// setting binds a dotted config key to a field of AppSettings. The field's
// Go type decides how raw values are decoded, encoded and parsed.
type setting struct {
	key string
	// secret values are never written back when empty.
	secret bool
	field  func(*domain.AppSettings) any
}

// settingsSchema is in display order.
var settingsSchema = []setting{
	{key: "embedding.provider", field: func(s *domain.AppSettings) any { return &s.Embedding.Provider }},
	{key: "embedding.model", field: func(s *domain.AppSettings) any { return &s.Embedding.Model }},
	{key: "embedding.base_url", field: func(s *domain.AppSettings) any { return &s.Embedding.BaseURL }},
	{key: "embedding.api_key", secret: true, field: func(s *domain.AppSettings) any { return &s.Embedding.APIKey }},
	{key: "embedding.dimensions", field: func(s *domain.AppSettings) any { return &s.Embedding.Dimensions }},
	{key: "embedding.requests_per_second", field: func(s *domain.AppSettings) any { return &s.Embedding.RequestsPerSecond }},

	{key: "llm.provider", field: func(s *domain.AppSettings) any { return &s.LLM.Provider }},
	{key: "llm.model", field: func(s *domain.AppSettings) any { return &s.LLM.Model }},
	{key: "llm.base_url", field: func(s *domain.AppSettings) any { return &s.LLM.BaseURL }},
	{key: "llm.api_key", secret: true, field: func(s *domain.AppSettings) any { return &s.LLM.APIKey }},

	{key: "pipeline.chunk_size", field: func(s *domain.AppSettings) any { return &s.Pipeline.ChunkSize }},
	{key: "pipeline.overlap", field: func(s *domain.AppSettings) any { return &s.Pipeline.Overlap }},
	{key: "pipeline.max_file_size", field: func(s *domain.AppSettings) any { return &s.Pipeline.MaxFileSize }},

	{key: "search.candidate_limit", field: func(s *domain.AppSettings) any { return &s.Search.CandidateLimit }},
	{key: "search.threshold", field: func(s *domain.AppSettings) any { return &s.Search.Threshold }},
	{key: "search.limit", field: func(s *domain.AppSettings) any { return &s.Search.Limit }},

	{key: "context.max_chars", field: func(s *domain.AppSettings) any { return &s.Context.MaxChars }},

	{key: "store.backend", field: func(s *domain.AppSettings) any { return &s.Store.Backend }},
	{key: "store.data_dir", field: func(s *domain.AppSettings) any { return &s.Store.DataDir }},

	{key: "cache.backend", field: func(s *domain.AppSettings) any { return &s.Cache.Backend }},
	{key: "cache.size", field: func(s *domain.AppSettings) any { return &s.Cache.Size }},
	{key: "cache.ttl", field: func(s *domain.AppSettings) any { return &s.Cache.TTL }},
	{key: "cache.redis_addr", field: func(s *domain.AppSettings) any { return &s.Cache.RedisAddr }},
	{key: "cache.key_prefix", field: func(s *domain.AppSettings) any { return &s.Cache.KeyPrefix }},

	{key: "blob.backend", field: func(s *domain.AppSettings) any { return &s.Blob.Backend }},
	{key: "blob.dir", field: func(s *domain.AppSettings) any { return &s.Blob.Dir }},
	{key: "blob.bucket", field: func(s *domain.AppSettings) any { return &s.Blob.Bucket }},
	{key: "blob.region", field: func(s *domain.AppSettings) any { return &s.Blob.Region }},
	{key: "blob.endpoint", field: func(s *domain.AppSettings) any { return &s.Blob.Endpoint }},
}

func lookupSetting(key string) (setting, bool) {
	for _, def := range settingsSchema {
		if def.key == key {
			return def, true
		}
	}
	return setting{}, false
}

// decode copies a stored or environment value into the field behind ptr.
// Empty, zero or undecodable values leave the field alone, and so does an
// unknown AI provider.
func decode(ptr, raw any) {
	text, _ := raw.(string)
	num, isNum := toNumber(raw)

	switch p := ptr.(type) {
	case *string:
		if text != "" {
			*p = text
		}
	case *int:
		if isNum && num != 0 {
			*p = int(num)
		}
	case *int64:
		if isNum && num != 0 {
			*p = int64(num)
		}
	case *float64:
		if isNum {
			*p = num
		}
	case *time.Duration:
		if d, err := time.ParseDuration(text); err == nil {
			*p = d
		}
	case *domain.AIProvider:
		if v := domain.AIProvider(text); v.IsValid() {
			*p = v
		}
	case *domain.StoreBackend:
		if text != "" {
			*p = domain.StoreBackend(text)
		}
	case *domain.CacheBackend:
		if text != "" {
			*p = domain.CacheBackend(text)
		}
	case *domain.BlobBackend:
		if text != "" {
			*p = domain.BlobBackend(text)
		}
	}
}

// encode returns the value persisted for the field behind ptr.
func encode(ptr any) any {
	switch p := ptr.(type) {
	case *int:
		return *p
	case *int64:
		return int(*p)
	case *float64:
		return *p
	case *time.Duration:
		return p.String()
	case *string:
		return *p
	case *domain.AIProvider:
		return string(*p)
	case *domain.StoreBackend:
		return string(*p)
	case *domain.CacheBackend:
		return string(*p)
	case *domain.BlobBackend:
		return string(*p)
	}
	return nil
}

// parse validates user input for the field type behind ptr and returns the
// value to store.
func parse(ptr any, value string) (any, error) {
	valid := true
	switch ptr.(type) {
	case *int, *int64:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return n, nil
	case *float64:
		return strconv.ParseFloat(value, 64)
	case *time.Duration:
		if _, err := time.ParseDuration(value); err != nil {
			return nil, err
		}
		return value, nil
	case *domain.AIProvider:
		valid = domain.AIProvider(value).IsValid()
	case *domain.StoreBackend:
		valid = domain.StoreBackend(value).IsValid()
	case *domain.CacheBackend:
		valid = domain.CacheBackend(value).IsValid()
	case *domain.BlobBackend:
		valid = domain.BlobBackend(value).IsValid()
	}
	if !valid {
		return nil, fmt.Errorf("unknown value %q", value)
	}
	return value, nil
}

// toNumber accepts TOML ints, JSON floats and numeric strings from the environment.
func toNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
