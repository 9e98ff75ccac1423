package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory storing the keystore db
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ChainIDKey is the identifier of the chain accounts are bound to
	ChainIDKey = "CHAIN_ID"
	// ChainQueryEndpointKey is the REST endpoint balances are queried from
	ChainQueryEndpointKey = "CHAIN_QUERY_ENDPOINT"
	// ChainQueryTimeoutKey are the milliseconds to wait for HTTP responses before timeouts
	ChainQueryTimeoutKey = "CHAIN_QUERY_TIMEOUT"
	// ChainQueryRateLimitKey is the number of chain query requests per second
	ChainQueryRateLimitKey = "CHAIN_QUERY_RATE_LIMIT"
	// KdfLogNKey overrides the scrypt cost exponent of new encrypted blobs
	KdfLogNKey = "KDF_LOG_N"

	// DbLocation is the subdirectory of the datadir holding the keystore db
	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("namkeyring", false)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("NAMKEYRING")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ChainIDKey, "namada-test.0000000000000")
	vip.SetDefault(ChainQueryEndpointKey, "http://localhost:26657")
	vip.SetDefault(ChainQueryTimeoutKey, 15000)
	vip.SetDefault(ChainQueryRateLimitKey, 10)
	vip.SetDefault(KdfLogNKey, 15)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}

	if err := initDatadir(); err != nil {
		log.WithError(err).Panic("error while creating datadir")
	}
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetDuration returns the value of the key in milliseconds
func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Millisecond
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

//GetDatadir ...
func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory the keystore db lives in
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	chainID := GetString(ChainIDKey)
	if len(chainID) <= 0 {
		return fmt.Errorf("chain id must not be null")
	}

	logN := GetInt(KdfLogNKey)
	if logN <= 0 || logN > 31 {
		return fmt.Errorf("kdf log n must be in range [1, 31]")
	}

	rateLimit := GetInt(ChainQueryRateLimitKey)
	if rateLimit <= 0 {
		return fmt.Errorf("chain query rate limit must be positive")
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
