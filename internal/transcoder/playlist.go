package transcoder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// bandwidthTable maps a rendition's height to the BANDWIDTH value
// advertised for it in the master playlist.
var bandwidthTable = map[int]int{
	144:  500000,
	240:  750000,
	360:  1000000,
	480:  1500000,
	720:  2500000,
	1080: 5000000,
	1440: 8000000,
	2160: 16000000,
}

const defaultBandwidth = 500000

// BandwidthForHeight returns the advertised bandwidth for a rendition
// height, falling back to defaultBandwidth for heights outside the
// fixed ladder.
func BandwidthForHeight(height int) int {
	if bw, ok := bandwidthTable[height]; ok {
		return bw
	}
	return defaultBandwidth
}

// WriteMasterPlaylist writes an HLS master playlist at path referencing
// every rendition, in the order given.
func WriteMasterPlaylist(path string, renditions []RenditionOutput) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n")
	for _, r := range renditions {
		bw := BandwidthForHeight(r.Rendition.Height)
		b.WriteString(fmt.Sprintf(
			"#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d\n",
			bw, r.Rendition.Width, r.Rendition.Height,
		))
		b.WriteString(filepath.Base(r.PlaylistPath))
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
