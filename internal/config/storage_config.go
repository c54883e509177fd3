package config

const (
	tokenStoreKey  = "token_store"
	tokenFileKey   = "token_file"
	redisAddrKey   = "redis_addr"
	redisPrefixKey = "redis_prefix"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type StorageConfig interface {
	GetTokenStore() string
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisPrefix() string
}

type Storage struct {
	source
}

var _ StorageConfig = Storage{}

// GetTokenStore returns one of TokenStoreFile, TokenStoreMemory or TokenStoreRedis.
func (s Storage) GetTokenStore() string {
	switch v := s.str(tokenStoreKey); v {
	case TokenStoreFile, TokenStoreMemory, TokenStoreRedis:
		return v
	default:
		return TokenStoreFile
	}
}

// GetTokenFile returns the token file path override. Empty means the
// platform default under the user's config directory.
func (s Storage) GetTokenFile() string {
	return s.str(tokenFileKey)
}

func (s Storage) GetRedisAddr() string {
	return s.str(redisAddrKey)
}

func (s Storage) GetRedisPrefix() string {
	return s.str(redisPrefixKey)
}
