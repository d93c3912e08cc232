package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"

	C "itemfreq/config"
)

type Key struct {
	// Dataset scopes the key to one loaded dataset.
	Dataset string
	// Prefix - Helps better grouping and searching
	// i.e result kind + algorithm
	Prefix string
	// Suffix - optional
	Suffix string
}

var (
	ErrorInvalidDataset = errors.New("invalid key dataset")
	ErrorInvalidPrefix  = errors.New("invalid key prefix")
	ErrorInvalidKey     = errors.New("invalid redis cache key")
	ErrorCacheDisabled  = errors.New("redis cache is not configured")
)

func NewKey(dataset string, prefix string, suffix string) (*Key, error) {
	if dataset == "" {
		return nil, ErrorInvalidDataset
	}

	if prefix == "" {
		return nil, ErrorInvalidPrefix
	}

	return &Key{Dataset: dataset, Prefix: prefix, Suffix: suffix}, nil
}

func (key *Key) Key() (string, error) {
	if key.Dataset == "" {
		return "", ErrorInvalidDataset
	}

	if key.Prefix == "" {
		return "", ErrorInvalidPrefix
	}

	// key: i.e, exact_topk:ds:retail:fp:9f3a...:k:10
	return fmt.Sprintf("%s:ds:%s:%s", key.Prefix, key.Dataset, key.Suffix), nil
}

func getConnection() (redis.Conn, error) {
	if !C.IsRedisEnabled() {
		return nil, ErrorCacheDisabled
	}
	return C.GetCacheRedisConnection(), nil
}

func Set(key *Key, value string, expiryInSecs float64) error {
	if key == nil {
		return ErrorInvalidKey
	}

	if value == "" {
		return errors.New("empty cache key value")
	}

	cKey, err := key.Key()
	if err != nil {
		return err
	}

	redisConn, err := getConnection()
	if err != nil {
		return err
	}
	defer redisConn.Close()

	if expiryInSecs == 0 {
		_, err = redisConn.Do("SET", cKey, value)
	} else {
		_, err = redisConn.Do("SET", cKey, value, "EX", int64(expiryInSecs))
	}

	return err
}

func Get(key *Key) (string, error) {
	if key == nil {
		return "", ErrorInvalidKey
	}

	cKey, err := key.Key()
	if err != nil {
		return "", err
	}

	redisConn, err := getConnection()
	if err != nil {
		return "", err
	}
	defer redisConn.Close()

	return redis.String(redisConn.Do("GET", cKey))
}

func Del(key *Key) error {
	if key == nil {
		return ErrorInvalidKey
	}

	cKey, err := key.Key()
	if err != nil {
		return err
	}

	redisConn, err := getConnection()
	if err != nil {
		return err
	}
	defer redisConn.Close()

	_, err = redisConn.Do("DEL", cKey)
	return err
}

// Exists Checks if a key exists in Redis.
func Exists(key *Key) (bool, error) {
	if key == nil {
		return false, ErrorInvalidKey
	}

	cKey, err := key.Key()
	if err != nil {
		return false, err
	}

	redisConn, err := getConnection()
	if err != nil {
		return false, err
	}
	defer redisConn.Close()

	return redis.Bool(redisConn.Do("EXISTS", cKey))
}

// SetJSON stores value marshalled as JSON.
func SetJSON(key *Key, value interface{}, expiryInSecs float64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Set(key, string(raw), expiryInSecs)
}

// GetJSON loads a JSON value into dst. found is false on a cache miss.
func GetJSON(key *Key, dst interface{}) (bool, error) {
	raw, err := Get(key)
	if err == redis.ErrNil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}
