package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// fetchDocument reads a provider status document from a URL or a local
// file path. Saved documents let lookup and replicate run offline.
func fetchDocument(urlOrPath string) ([]byte, error) {
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	resp, err := http.Get(urlOrPath)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}
	return io.ReadAll(resp.Body)
}
