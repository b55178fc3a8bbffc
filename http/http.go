package http

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Timeout applies to the whole request, body included.
var Timeout = 120 * time.Second

// Get returns the body of a GET request to url, failing on any status other than 200.
func Get(url string) ([]byte, error) {
	client := http.Client{
		Timeout: Timeout,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "chemical/x-pdb, text/plain")

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return body, nil
}
