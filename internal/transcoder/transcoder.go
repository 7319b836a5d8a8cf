package transcoder

import (
	"context"
)

// RenditionOutput is the result of transcoding the source into one
// rendition of the ladder.
type RenditionOutput struct {
	Rendition    Rendition
	PlaylistPath string
	SegmentPaths []string
}

// ABROutput is the full result of an adaptive-bitrate transcode: a
// master playlist referencing every rendition that was produced.
type ABROutput struct {
	MasterPlaylistPath string
	Renditions         []RenditionOutput
}

// Transcoder defines the interface for video transcoding operations.
// Implementations handle probing the source resolution and producing
// an HLS adaptive-bitrate rendition ladder from it.
type Transcoder interface {
	// ProbeResolution inspects the source file's first video stream and
	// returns its pixel dimensions.
	ProbeResolution(ctx context.Context, inputPath string) (width, height int, err error)

	// TranscodeToABR converts inputPath into the full rendition ladder
	// plus a master playlist, writing every file into outputDir.
	// videoUUID namespaces the per-rendition file names so multiple
	// jobs can share a machine without colliding.
	//
	// outputDir must exist before calling this method.
	TranscodeToABR(ctx context.Context, inputPath, outputDir, videoUUID string) (*ABROutput, error)
}
