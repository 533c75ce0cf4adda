package domain

import "time"

const (
	DefaultEmbeddingDimensions = 1536
	DefaultContextChars        = 4000
)

// EmbeddingSettings configures the embedding provider. The mock provider
// ignores everything but Dimensions.
type EmbeddingSettings struct {
	Provider   AIProvider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	// RequestsPerSecond paces provider calls; 0 means unpaced.
	RequestsPerSecond float64
}

// IsConfigured is true only for a real provider with its credentials.
func (e EmbeddingSettings) IsConfigured() bool { return e.Provider.configured(e.APIKey) }

type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

func (l LLMSettings) IsConfigured() bool { return l.Provider.configured(l.APIKey) }

// PipelineSettings sizes chunks (in characters) and caps uploads (in bytes).
type PipelineSettings struct {
	ChunkSize   int
	Overlap     int
	MaxFileSize int64
}

type SearchSettings struct {
	// CandidateLimit is how many of the newest records a search scores.
	CandidateLimit int
	Threshold      float64
	Limit          int
}

type ContextSettings struct {
	MaxChars int
}

type StoreBackend string

const (
	StoreBackendMemory StoreBackend = "memory"
	StoreBackendSQLite StoreBackend = "sqlite"
)

func (b StoreBackend) IsValid() bool {
	return b == StoreBackendMemory || b == StoreBackendSQLite
}

type StoreSettings struct {
	Backend StoreBackend
	// DataDir holds the sqlite database, ~/.contentrag/data when empty.
	DataDir string
}

type CacheBackend string

const (
	CacheBackendNone  CacheBackend = "none"
	CacheBackendLRU   CacheBackend = "lru"
	CacheBackendRedis CacheBackend = "redis"
)

func (b CacheBackend) IsValid() bool {
	return b == CacheBackendNone || b == CacheBackendLRU || b == CacheBackendRedis
}

// CacheSettings configures the embedding cache. Size applies to the LRU,
// RedisAddr and KeyPrefix to Redis, TTL to both.
type CacheSettings struct {
	Backend   CacheBackend
	Size      int
	TTL       time.Duration
	RedisAddr string
	KeyPrefix string
}

type BlobBackend string

const (
	BlobBackendNone  BlobBackend = "none"
	BlobBackendLocal BlobBackend = "local"
	BlobBackendS3    BlobBackend = "s3"
)

func (b BlobBackend) IsValid() bool {
	return b == BlobBackendNone || b == BlobBackendLocal || b == BlobBackendS3
}

// BlobSettings says where raw uploads are archived. Dir defaults to
// ~/.contentrag/blobs; Endpoint points the S3 client at MinIO and friends.
type BlobSettings struct {
	Backend  BlobBackend
	Dir      string
	Bucket   string
	Region   string
	Endpoint string
}

type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Pipeline  PipelineSettings
	Search    SearchSettings
	Context   ContextSettings
	Store     StoreSettings
	Cache     CacheSettings
	Blob      BlobSettings
}

// DefaultAppSettings embeds with the mock provider and leaves the LLM
// unset, so a fresh install works offline.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{Provider: AIProviderMock, Dimensions: DefaultEmbeddingDimensions},
		Pipeline:  PipelineSettings{ChunkSize: 1000, Overlap: 200, MaxFileSize: 10 << 20},
		Search: SearchSettings{
			CandidateLimit: DefaultCandidateLimit,
			Threshold:      DefaultSearchThreshold,
			Limit:          DefaultSearchLimit,
		},
		Context: ContextSettings{MaxChars: DefaultContextChars},
		Store:   StoreSettings{Backend: StoreBackendSQLite},
		Cache: CacheSettings{
			Backend:   CacheBackendLRU,
			Size:      1000,
			TTL:       24 * time.Hour,
			KeyPrefix: "contentrag:embedding:",
		},
		Blob: BlobSettings{Backend: BlobBackendLocal},
	}
}
