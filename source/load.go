package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gogpu/rastermesh"
)

// Load reads a JSON raster from a file path or an http(s) URL. Any failure
// is reported as a *rastermesh.SourceError labeled "unable to fetch <loc>".
func Load(ctx context.Context, loc string) (*Raster, error) {
	rc, err := open(ctx, loc)
	if err != nil {
		return nil, &rastermesh.SourceError{Label: "unable to fetch " + loc, Err: err}
	}
	defer rc.Close()

	raster, err := decode(rc)
	if err != nil {
		return nil, &rastermesh.SourceError{Label: "unable to fetch " + loc, Err: err}
	}
	rastermesh.Logger().Debug("source: loaded raster",
		"location", loc,
		"width", raster.Width,
		"height", raster.Height,
		"bands", len(raster.Bands))
	return raster, nil
}

// LoadBand is Load followed by Select.
func LoadBand(ctx context.Context, loc string, band int) (*Snapshot, error) {
	raster, err := Load(ctx, loc)
	if err != nil {
		return nil, err
	}
	return raster.Select(band)
}

func open(ctx context.Context, loc string) (io.ReadCloser, error) {
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		return os.Open(loc)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
