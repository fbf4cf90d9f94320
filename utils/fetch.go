package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

var httpClient = &fasthttp.Client{
	Name:                "email-validator-api",
	ReadTimeout:         30 * time.Second,
	WriteTimeout:        10 * time.Second,
	MaxResponseBodySize: 32 << 20,
}

// FetchJSON GETs url and decodes the JSON body into out.
func FetchJSON(url string, timeout time.Duration, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := httpClient.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, code)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
