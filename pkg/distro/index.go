package distro

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/jolt-sh/jolt/pkg/version"
)

// indexClient is separate from the archive download client; an index
// fetch is small and should fail fast.
var indexClient = &http.Client{Timeout: 30 * time.Second}

// indexEntry is one release in the registry's index.json listing.
type indexEntry struct {
	Version string `json:"version"`
}

// ResolveLatestMatching fetches a release index and returns the highest
// published version satisfying the constraint.
func ResolveLatestMatching(indexURL string, c *semver.Constraints) (*semver.Version, error) {
	resp, err := indexClient.Get(indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release index from %s: %w", indexURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch release index from %s: HTTP %d", indexURL, resp.StatusCode)
	}

	var entries []indexEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse release index from %s: %w", indexURL, err)
	}

	var best *semver.Version
	for _, entry := range entries {
		v, err := version.Parse(entry.Version)
		if err != nil {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no published version matches %s", c)
	}

	log.Debug("resolved version from release index", "constraint", c, "version", best)
	return best, nil
}
