package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// errNoFont is returned when every configured font source fails.
var errNoFont = errors.New("no usable font source")

// loadFont tries each configured source in order and returns the first TTF
// payload it can read. A source starting with http:// or https:// is fetched
// over the network; anything else is treated as a local file path.
func (e *Exporter) loadFont(ctx context.Context) ([]byte, error) {
	var lastErr error
	for _, src := range e.fontSources {
		data, err := e.readFontSource(ctx, src)
		if err != nil {
			lastErr = err
			continue
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", errNoFont, lastErr)
	}
	return nil, errNoFont
}

func (e *Exporter) readFontSource(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := e.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch font %s: status %d", src, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(src)
}
