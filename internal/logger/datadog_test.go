package logger

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intake struct {
	mu       sync.Mutex
	apiKeys  []string
	messages []string
}

func (i *intake) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	var items []struct {
		Message string `json:"message"`
		Service string `json:"service"`
	}
	_ = json.Unmarshal(body, &items)

	i.mu.Lock()
	i.apiKeys = append(i.apiKeys, r.Header.Get("DD-API-KEY"))
	for _, item := range items {
		i.messages = append(i.messages, item.Service+":"+item.Message)
	}
	i.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("{}"))
}

func (i *intake) received() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]string(nil), i.messages...)
}

func TestDataDogWriter(t *testing.T) {
	in := &intake{}
	srv := httptest.NewServer(http.HandlerFunc(in.handler))
	t.Cleanup(srv.Close)

	w, err := NewDataDogWriter(DataDog{
		APIKey:  "secret",
		Servers: datadog.ServerConfigurations{{URL: srv.URL}},
		Timeout: time.Second,
	}, "settings-test")
	require.NoError(t, err)

	n, err := w.Write([]byte(`{"level":"info","message":"hello"}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 35, n)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, []string{`settings-test:{"level":"info","message":"hello"}`}, in.received())
	assert.Equal(t, []string{"secret"}, in.apiKeys)

	_, err = w.Write([]byte("after close"))
	require.NoError(t, err)
}

func TestDataDogWriterDropsWhenFull(t *testing.T) {
	// no sender goroutine, the queue only fills
	w := &DataDogWriter{queue: make(chan string, 1), done: make(chan struct{})}
	before := testutil.ToFloat64(dataDogDropped)

	n, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.InDelta(t, before, testutil.ToFloat64(dataDogDropped), 0)

	n, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.InDelta(t, before+1, testutil.ToFloat64(dataDogDropped), 0)

	assert.Equal(t, "first", <-w.queue)
}

func TestDataDogWriterErrors(t *testing.T) {
	_, err := NewDataDogWriter(DataDog{}, "svc")
	require.ErrorIs(t, err, ErrDataDogAPIKeyIsEmpty)

	err = Init(Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		DataDog:     DataDog{Enabled: true},
	})
	require.ErrorIs(t, err, ErrDataDogAPIKeyIsEmpty)
}

func TestInitInstallsDataDog(t *testing.T) {
	in := &intake{}
	srv := httptest.NewServer(http.HandlerFunc(in.handler))
	t.Cleanup(srv.Close)

	cfg := Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		DataDog: DataDog{
			Enabled: true,
			APIKey:  "secret",
			Servers: datadog.ServerConfigurations{{URL: srv.URL}},
		},
	}

	require.NoError(t, Init(cfg))
	require.NotNil(t, dataDog)

	first := dataDog

	cfg.DataDog.Enabled = false
	require.NoError(t, Init(cfg))
	assert.Nil(t, dataDog)

	_, err := first.Write([]byte("dropped"))
	require.NoError(t, err)
}
