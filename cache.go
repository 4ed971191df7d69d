package microservices

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"
)

const (
	MEMCACHE_KEY_MAX   = 250
	MEMCACHE_VALUE_MAX = 1000000
)

// cacheStore is the part of *memcache.Client the middleware uses.
type cacheStore interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// ResponseCache caches successful JSON GET responses in memcached.
// Other methods and non-200 responses pass through untouched.
type ResponseCache struct {
	store cacheStore
	// Cache expiration time in seconds. 0 means no cache.
	expiration int32
	logger     *zap.Logger
}

// NewResponseCache returns a ResponseCache storing entries in the
// given memcached client with the given expiration in seconds.
func NewResponseCache(client *memcache.Client, expiration int32,
	logger *zap.Logger) *ResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		store:      client,
		expiration: expiration,
		logger:     logger,
	}
}

// makeKey folds the negotiated representation into the key: the doc
// view serves different bodies for the same URI depending on Accept.
func makeKey(req *http.Request) string {
	uri := req.URL.RequestURI()
	if acceptsHTML(req) {
		uri += "\naccept:" + HTML_TYPE
	}
	b := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(b[:])
}

// Cache entries carry their content type ahead of the body so a hit
// replays the original representation.
func encodeEntry(contentType string, body []byte) []byte {
	entry := make([]byte, 0, len(contentType)+1+len(body))
	entry = append(entry, contentType...)
	entry = append(entry, '\n')
	return append(entry, body...)
}

func decodeEntry(entry []byte) (contentType string, body []byte) {
	for i, c := range entry {
		if c == '\n' {
			return string(entry[:i]), entry[i+1:]
		}
	}
	return "", entry
}

func (t *ResponseCache) cacheGet(key string) []byte {
	item, err := t.store.Get(key)
	if err != nil {
		t.logger.Debug("memcache get", zap.String("key", key), zap.Error(err))
		return nil
	}
	return item.Value
}

func (t *ResponseCache) cacheSet(key string, value []byte) {
	if len(value) > MEMCACHE_VALUE_MAX {
		t.logger.Warn("cannot cache, value too big",
			zap.String("key", key),
			zap.Int("size", len(value)),
		)
		return
	}
	err := t.store.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: t.expiration,
	})
	if err != nil {
		t.logger.Debug("memcache set", zap.String("key", key), zap.Error(err))
	}
}

type cachingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (t *cachingWriter) WriteHeader(status int) {
	t.status = status
	t.ResponseWriter.WriteHeader(status)
}

func (t *cachingWriter) Write(b []byte) (int, error) {
	t.body.Write(b)
	return t.ResponseWriter.Write(b)
}

// Middleware decorates handler with the response cache. A zero
// expiration disables caching entirely.
func (t *ResponseCache) Middleware(handler http.Handler) http.Handler {
	if t.expiration == 0 || t.store == nil {
		return handler
	}
	wrapped := func(w http.ResponseWriter, req *http.Request) {
		if req.Method != GET {
			handler.ServeHTTP(w, req)
			return
		}
		key := makeKey(req)
		if value := t.cacheGet(key); value != nil {
			contentType, body := decodeEntry(value)
			if contentType == "" {
				contentType = JSON_TYPE
			}
			w.Header().Set(CONTENT_TYPE, contentType)
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
		cw := &cachingWriter{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(cw, req)
		if cw.status == http.StatusOK {
			contentType := cw.Header().Get(CONTENT_TYPE)
			t.cacheSet(key, encodeEntry(contentType, cw.body.Bytes()))
		}
	}
	return http.HandlerFunc(wrapped)
}
