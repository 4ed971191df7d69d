package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	microservices "github.com/microservice-s/microservices-2"
)

// newEchoServer mirrors the example service: /second/ echoes posted
// documents, /second/{one}/{two}/ answers with its path parameters
// and the posted document.
func newEchoServer() *httptest.Server {
	h := microservices.NewHandler()
	second := h.Path("/second/")
	second.
		Get("Get the second resource", func(
			w http.ResponseWriter, req *http.Request) {
			w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
			microservices.WriteJSON([]string{"second"}, w)
		}).
		Post("Echo the posted document", func(
			w http.ResponseWriter, req *http.Request) {
			var v interface{}
			microservices.ReadJSON(&v, req)
			w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
			microservices.WriteJSON(v, w)
		})
	second.SubPath("{one}/{two:[0-9]+}/").
		Post("Post to the nested resource", func(
			w http.ResponseWriter, req *http.Request) {
			vars := microservices.Vars(req)
			two, _ := strconv.Atoi(vars["two"])
			var data interface{}
			microservices.ReadJSON(&data, req)
			w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
			microservices.WriteJSON(map[string]interface{}{
				"response": []interface{}{vars["one"], two, data},
			}, w)
		})
	return httptest.NewServer(microservices.ErrorHandler(h))
}

func TestResourceComposition(t *testing.T) {
	assert := assert.New(t)

	root := New("http://example.com/api/")
	child := root.Resource("second").Resource("one", "2")

	assert.Equal("http://example.com/api/second/one/2/", child.BaseURL())
	assert.Equal("http://example.com/api/", root.BaseURL(),
		"the original client must be unchanged")

	// escaping
	assert.Equal("http://example.com/api/a%20b/",
		root.Resource("a b").BaseURL())
}

func TestURLFor(t *testing.T) {
	assert := assert.New(t)

	c := New("http://localhost:5000")
	assert.Equal("http://localhost:5000/one/two/",
		c.URLFor([]string{"one", "two"}, nil))

	noSlash := New("http://localhost:5000", WithCloseSlash(false))
	assert.Equal("http://localhost:5000/one/two",
		noSlash.URLFor([]string{"one", "two"}, nil))
}

func TestGetKey(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"v": "value", "other": 1}`))
	}))
	defer ts.Close()

	c := New(ts.URL)

	result, err := c.Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Equal("value", result)

	result, err = c.Get(context.Background(), Request{})
	require.NoError(err)
	assert.Equal(map[string]interface{}{"v": "value", "other": float64(1)},
		result)

	_, err = c.Get(context.Background(), Request{Key: "missing"})
	require.Error(err)
	responseErr, ok := err.(*ResponseError)
	require.True(ok)
	assert.Equal(http.StatusOK, responseErr.StatusCode)
}

func TestNoneStatuses(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "not found"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)

	result, err := c.Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Nil(result)
}

func TestErrorStatus(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Get(context.Background(), Request{})
	require.Error(err)
	responseErr, ok := err.(*ResponseError)
	require.True(ok)
	assert.Equal(http.StatusInternalServerError, responseErr.StatusCode)
	assert.Contains(string(responseErr.Body), "boom")
}

func TestEmptyToNone(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"v": {}}`))
	}))
	defer ts.Close()

	result, err := New(ts.URL).Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Nil(result)

	result, err = New(ts.URL, WithEmptyToNone(false)).
		Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Equal(map[string]interface{}{}, result)
}

func TestEmptyBodyWithKey(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	serve := func(body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(
			w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))
	}

	// an empty object has no keys to extract: nil, not an error
	ts := serve(`{}`)
	defer ts.Close()
	result, err := New(ts.URL).Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Nil(result)

	tsList := serve(`[]`)
	defer tsList.Close()
	result, err = New(tsList.URL).Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Nil(result)

	tsNull := serve(`null`)
	defer tsNull.Close()
	result, err = New(tsNull.URL).Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Nil(result)

	// with the conversion disabled the empty body comes back as-is
	result, err = New(ts.URL, WithEmptyToNone(false)).
		Get(context.Background(), Request{Key: "v"})
	require.NoError(err)
	assert.Equal(map[string]interface{}{}, result)
}

func TestQueryAndHeaders(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		assert.Equal("1", req.URL.Query().Get("a"))
		assert.Equal("custom", req.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	result, err := New(ts.URL).Get(context.Background(), Request{
		Query:  map[string][]string{"a": {"1"}},
		Header: http.Header{"X-Test": {"custom"}},
		Key:    "ok",
	})
	require.NoError(err)
	assert.Equal(true, result)
}

func TestEchoRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newEchoServer()
	defer ts.Close()

	posted := map[string]interface{}{"test": "tested"}
	result, err := New(ts.URL).Resource("second").
		Post(context.Background(), Request{Data: posted})
	require.NoError(err)
	assert.Equal(posted, result)
}

func TestNestedResource(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newEchoServer()
	defer ts.Close()

	result, err := New(ts.URL).
		Resource("second").
		Resource("one", "2").
		Post(context.Background(), Request{
			Data: map[string]interface{}{"test": "tested"},
		})
	require.NoError(err)
	assert.Equal(map[string]interface{}{
		"response": []interface{}{
			"one",
			float64(2),
			map[string]interface{}{"test": "tested"},
		},
	}, result)
}

func TestInvalidEndpoint(t *testing.T) {
	require := require.New(t)

	// construction must not fail; the call does
	c := New("http://[::1]:namedport")
	_, err := c.Get(context.Background(), Request{})
	require.Error(err)
}

func TestTimeout(t *testing.T) {
	require := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(
		w http.ResponseWriter, req *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Get(context.Background(), Request{
		Timeout: 10 * time.Millisecond,
	})
	require.Error(err)
}
