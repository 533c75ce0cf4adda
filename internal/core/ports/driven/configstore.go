package driven

// ConfigStore persists raw settings under dotted keys such as
// "embedding.provider". Typing, defaults and environment overrides are the
// settings service's job; stores hand values back as decoded.
type ConfigStore interface {
	Get(key string) (any, bool)
	// Set must be durable when it returns.
	Set(key string, value any) error
	// Path names the backing file, or a pseudo-path for non-file stores.
	Path() string
}
