package logger

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

const (
	submitLogOperation = "v2.LogsApi.SubmitLog"
	ddSource           = "bobasettings"

	defaultDataDogTimeout    = 5 * time.Second
	defaultDataDogBufferSize = 1024
)

// DataDogWriter queues log lines and submits them to datadog from one goroutine.
// Lines written while the queue is full are dropped.
type DataDogWriter struct {
	api      *datadogV2.LogsApi
	ctx      context.Context
	service  string
	hostname string
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// NewDataDogWriter returns a started DataDogWriter. fallbackService is used
// when cfg.ServiceName is empty.
func NewDataDogWriter(cfg DataDog, fallbackService string) (*DataDogWriter, error) {
	if cfg.APIKey == "" {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	service := cfg.ServiceName
	if service == "" {
		service = fallbackService
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDataDogTimeout
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = defaultDataDogBufferSize
	}

	configuration := datadog.NewConfiguration()
	configuration.HTTPClient = &http.Client{Timeout: timeout}
	if len(cfg.Servers) > 0 {
		configuration.OperationServers[submitLogOperation] = cfg.Servers
	}

	ctx := context.WithValue(context.Background(), datadog.ContextAPIKeys, map[string]datadog.APIKey{
		"apiKeyAuth": {Key: cfg.APIKey},
	})
	if cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": cfg.Site})
	}

	hostname, _ := os.Hostname()

	w := &DataDogWriter{
		api:      datadogV2.NewLogsApi(datadog.NewAPIClient(configuration)),
		ctx:      ctx,
		service:  service,
		hostname: hostname,
		timeout:  timeout,
		queue:    make(chan string, size),
		done:     make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Write queues one log line. It never blocks.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return len(p), nil
	}

	select {
	case w.queue <- strings.TrimRight(string(p), "\n"):
	default:
		dataDogDropped.Inc()
	}

	return len(p), nil
}

// Close stops the writer after the queued lines were sent.
func (w *DataDogWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	<-w.done

	return nil
}

func (w *DataDogWriter) run() {
	defer close(w.done)

	for line := range w.queue {
		w.send(line)
	}
}

func (w *DataDogWriter) send(line string) {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	item := datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString(ddSource),
		Hostname: datadog.PtrString(w.hostname),
		Message:  line,
		Service:  datadog.PtrString(w.service),
	}

	// the global logger writes here, so failures are only counted
	_, resp, err := w.api.SubmitLog(ctx, []datadogV2.HTTPLogItem{item})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		dataDogErrors.Inc()
	}
}
