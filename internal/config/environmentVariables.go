package config

import (
	"time"
)

const (
	AppName    = "kbcurator"
	AppVersion = "0.4.0"

	TRACE_ID_KEY                    = "traceId"
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, serve mode falls back to the in-memory stores
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RATE_LIMIT_CLIENT_IDLE          = 10 * time.Minute //per-ip limiters unused for this long are dropped

	//pipeline
	UpsertBatchSize        = 100
	EmbedBatchSize         = 100
	ReorganizeProgressStep = 50
	HashMinimumSize        = 100 //bytes; smaller files are never hashed
	PageExtractTimeout     = 10 * time.Second
	JSONLMaxLineBytes      = 16 << 20
	WatchDebounce          = 500 * time.Millisecond

	//probe gate
	ProbeTopK             = 3
	ProbeDefaultThreshold = 0.10

	//embeddings
	OpenAIEmbeddingModel      = "text-embedding-3-large"
	OpenAIEmbeddingDimension  = 3072
	GoogleEmbeddingModel      = "gemini-embedding-001"
	GoogleEmbeddingDimension  = 1536
	DryRunEmbeddingDimension  = 16
	EmbeddingRequestTimeout   = 60 * time.Second
	DefaultChipFamily         = "imessage"
	ImessageFallbackWeekPhase = "IMSG"

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobTimeout                      = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	MaxUploadSize          = 32 << 20 //32mb

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantPoolSize          = 1
	QdrantKeepAliveTimeout  = 30 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisHistoryStore = 1

	RedisJobStoreTTL     = 24 * time.Hour
	RedisHistoryStoreTTL = 7 * 24 * time.Hour
	HistoryDepth         = 5
)
