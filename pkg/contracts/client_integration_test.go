// Package contracts integration tests verify that actual clients
// correctly parse API responses matching the recorded contracts.
package contracts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/pexels"
)

func contractServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Header.Get("Authorization") == "":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(PexelsErrorContract))
		case strings.HasPrefix(r.URL.Path, "/videos/search"):
			_, _ = w.Write([]byte(PexelsVideoSearchContract))
		case strings.HasPrefix(r.URL.Path, "/v1/curated"):
			_, _ = w.Write([]byte(PexelsCuratedContract))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// TestPexelsClient_ParsesVideoContract verifies the client reads the
// fields the catalog needs from a recorded search response.
func TestPexelsClient_ParsesVideoContract(t *testing.T) {
	server := contractServer(t)
	client := pexels.NewClient("test-key", pexels.WithBaseURL(server.URL), pexels.WithRateLimit(nil))

	videos, err := client.FetchVideos(context.Background(), "nature", 2)
	if err != nil {
		t.Fatalf("client should parse contract response: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	v := videos[0]
	if v.ID != "1448735" {
		t.Errorf("expected id '1448735', got %q", v.ID)
	}
	if v.Author != "Ruvim Miksanskiy" || v.Duration != 32 {
		t.Errorf("unexpected metadata: %+v", v)
	}
	if len(v.Files) != 2 || v.Files[0].Link != "https://player.vimeo.com/external/291648067.sd.mp4" {
		t.Errorf("unexpected renditions: %+v", v.Files)
	}
}

// TestPexelsClient_ParsesCuratedContract verifies photo decoding.
func TestPexelsClient_ParsesCuratedContract(t *testing.T) {
	server := contractServer(t)
	client := pexels.NewClient("test-key", pexels.WithBaseURL(server.URL), pexels.WithRateLimit(nil))

	photos, err := client.FetchCurated(context.Background(), 2)
	if err != nil {
		t.Fatalf("client should parse contract response: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if !strings.HasPrefix(photos[0].Large, "https://images.pexels.com/photos/2014422/") {
		t.Errorf("expected large source, got %q", photos[0].Large)
	}
	if photos[1].Photographer != "Deden Dicky Ramdhani" {
		t.Errorf("expected photographer, got %q", photos[1].Photographer)
	}
}

// TestCatalog_BuildsItemsFromContracts verifies the full mapping: videos
// without renditions are dropped, photos are grouped.
func TestCatalog_BuildsItemsFromContracts(t *testing.T) {
	server := contractServer(t)
	src := pexels.NewClient("test-key", pexels.WithBaseURL(server.URL), pexels.WithRateLimit(nil))
	cat := catalog.NewClient(src, catalog.DefaultOptions())

	videos, images := cat.FetchAll(context.Background())

	if len(videos) != 1 || videos[0].ID != "1448735" {
		t.Errorf("only the video with a rendition should remain, got %+v", videos)
	}
	if len(images) != 1 || images[0].ID != "post-0" || len(images[0].Sources) != 2 {
		t.Errorf("two photos should form one partial group, got %+v", images)
	}
}

// TestPexelsClient_RejectsMissingCredential verifies the 401 contract.
func TestPexelsClient_RejectsMissingCredential(t *testing.T) {
	server := contractServer(t)
	client := pexels.NewClient("", pexels.WithBaseURL(server.URL), pexels.WithRateLimit(nil))

	_, err := client.FetchCurated(context.Background(), 2)
	if err == nil || !strings.Contains(err.Error(), "PEXELS_API_KEY") {
		t.Errorf("missing credential should name PEXELS_API_KEY, got %v", err)
	}
}

// TestContracts_ValidJSON ensures the recorded responses are well formed.
func TestContracts_ValidJSON(t *testing.T) {
	for name, body := range map[string]string{
		"videos":  PexelsVideoSearchContract,
		"curated": PexelsCuratedContract,
		"error":   PexelsErrorContract,
	} {
		var v interface{}
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			t.Errorf("%s contract is invalid JSON: %v", name, err)
		}
	}
}
