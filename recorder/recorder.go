// Package recorder captures HTTP exchanges as an HTTP Archive (HAR) so a
// session's traffic to the country and geolocation services can be replayed
// or inspected later.
package recorder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pb33f/harhar"
)

const (
	harVersion   = "1.2"
	maxBodyBytes = 16 << 20
)

type archive struct {
	Log archiveLog `json:"log"`
}

type archiveLog struct {
	Version string         `json:"version"`
	Creator harhar.Creator `json:"creator"`
	Entries []harhar.Entry `json:"entries"`
}

// Recorder is an http.RoundTripper that records every exchange it forwards.
type Recorder struct {
	next    http.RoundTripper
	creator harhar.Creator

	mu      sync.Mutex
	entries []harhar.Entry
}

// New wraps next, or http.DefaultTransport when next is nil. name and version
// identify the creator in the archive.
func New(next http.RoundTripper, name, version string) *Recorder {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Recorder{
		next:    next,
		creator: harhar.Creator{Name: name, Version: version},
	}
}

// Client returns an http.Client that records through r.
func (r *Recorder) Client() *http.Client {
	return &http.Client{Transport: r}
}

// RoundTrip forwards req and records it. The response body is buffered so the
// caller still reads it in full.
func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		reqBody, err = io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("recording request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	entry := harhar.Entry{
		Start:   start.Format(time.RFC3339Nano),
		Request: buildRequest(req, reqBody),
	}

	resp, err := r.next.RoundTrip(req)
	if err != nil {
		entry.Time = millis(time.Since(start))
		entry.Response = harhar.Response{StatusText: err.Error(), HTTPVersion: req.Proto}
		r.add(entry)
		return nil, err
	}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(respBody))

	entry.Time = millis(time.Since(start))
	entry.Response = buildResponse(resp, respBody)
	r.add(entry)

	if readErr != nil {
		return nil, fmt.Errorf("recording response body: %w", readErr)
	}
	return resp, nil
}

// Entries returns a copy of the recorded exchanges in the order they started.
func (r *Recorder) Entries() []harhar.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]harhar.Entry(nil), r.entries...)
}

// Len is the number of recorded exchanges.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// WriteTo writes the archive as indented JSON.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	doc := archive{Log: archiveLog{
		Version: harVersion,
		Creator: r.creator,
		Entries: r.Entries(),
	}}
	if doc.Log.Entries == nil {
		doc.Log.Entries = []harhar.Entry{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding archive: %w", err)
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// Save writes the archive to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (r *Recorder) add(e harhar.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

func buildRequest(req *http.Request, body []byte) harhar.Request {
	out := harhar.Request{
		Method:      req.Method,
		URL:         req.URL.String(),
		HTTPVersion: req.Proto,
		Headers:     headerPairs(req.Header),
		QueryParams: queryPairs(req),
		HeadersSize: -1,
		BodySize:    len(body),
	}
	if len(body) > 0 {
		out.Body = harhar.BodyType{
			MIMEType: req.Header.Get("Content-Type"),
			Content:  string(body),
		}
	}
	return out
}

func buildResponse(resp *http.Response, body []byte) harhar.Response {
	return harhar.Response{
		StatusCode:  resp.StatusCode,
		StatusText:  strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))),
		HTTPVersion: resp.Proto,
		Headers:     headerPairs(resp.Header),
		Body: harhar.BodyResponseType{
			Size:     len(body),
			MIMEType: resp.Header.Get("Content-Type"),
			Content:  string(body),
		},
		HeadersSize: -1,
		BodySize:    len(body),
	}
}

func headerPairs(h http.Header) []harhar.NameValuePair {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]harhar.NameValuePair, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			pairs = append(pairs, harhar.NameValuePair{Name: name, Value: v})
		}
	}
	return pairs
}

func queryPairs(req *http.Request) []harhar.NameValuePair {
	values := req.URL.Query()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]harhar.NameValuePair, 0, len(names))
	for _, name := range names {
		for _, v := range values[name] {
			pairs = append(pairs, harhar.NameValuePair{Name: name, Value: v})
		}
	}
	return pairs
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
