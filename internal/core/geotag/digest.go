package geotag

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/samirrijal/skytag/internal/core/domain"
)

// InputDigest fingerprints everything a footprint depends on: the capture telemetry,
// its field of view and this engine's configuration. Equal digests mean Corners would
// return the same footprint.
func (e *Engine) InputDigest(t domain.Telemetry, fov domain.FOV) string {
	b, err := json.Marshal(struct {
		Telemetry domain.Telemetry
		FOV       domain.FOV
		Engine    Config
	}{t, fov, e.cfg})
	if err != nil {
		// Only non-finite floats fail to marshal, and callers validate those first.
		b = fmt.Appendf(nil, "%#v|%#v|%#v", t, fov, e.cfg)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
