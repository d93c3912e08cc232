package harness

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	cacheRedis "itemfreq/cache/redis"
	E "itemfreq/estimator"
	M "itemfreq/metrics"
)

const exactResultCachePrefix = "exact_topk"

// ExactCache remembers exact pipeline results across runs. fingerprint is
// the content hash of the loaded store, so a dataset rewritten under the
// same name misses.
type ExactCache interface {
	Get(dataset string, fingerprint uint64, itemCount, k int) (*E.Result, bool)
	Set(dataset string, fingerprint uint64, itemCount, k int, result *E.Result)
}

// RedisExactCache keys exact results by dataset, store fingerprint, item
// count and k.
type RedisExactCache struct {
	ExpirySecs float64
}

func exactResultKey(dataset string, fingerprint uint64, itemCount, k int) (*cacheRedis.Key, error) {
	return cacheRedis.NewKey(dataset, exactResultCachePrefix,
		fmt.Sprintf("fp:%x:items:%d:k:%d", fingerprint, itemCount, k))
}

func (c *RedisExactCache) Get(dataset string, fingerprint uint64, itemCount, k int) (*E.Result, bool) {
	logCtx := log.WithFields(log.Fields{"dataset": dataset, "k": k})
	key, err := exactResultKey(dataset, fingerprint, itemCount, k)
	if err != nil {
		logCtx.WithError(err).Error("Invalid exact result cache key.")
		return nil, false
	}
	result := &E.Result{}
	found, err := cacheRedis.GetJSON(key, result)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to read exact result cache.")
		return nil, false
	}
	if !found {
		M.Increment(M.IncrExactCacheMiss)
		return nil, false
	}
	M.Increment(M.IncrExactCacheHit)
	return result, true
}

func (c *RedisExactCache) Set(dataset string, fingerprint uint64, itemCount, k int, result *E.Result) {
	logCtx := log.WithFields(log.Fields{"dataset": dataset, "k": k})
	key, err := exactResultKey(dataset, fingerprint, itemCount, k)
	if err != nil {
		logCtx.WithError(err).Error("Invalid exact result cache key.")
		return
	}
	if err := cacheRedis.SetJSON(key, result, c.ExpirySecs); err != nil {
		logCtx.WithError(err).Warn("Failed to write exact result cache.")
	}
}
