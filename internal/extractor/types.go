package extractor

import "encoding/json"

// RawFormat mirrors one entry of the extractor's formats array. Zero
// values stand in for fields the source did not report.
type RawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	FPS            float64 `json:"fps"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	VBR            float64 `json:"vbr"`
	ABR            float64 `json:"abr"`
	ACodec         string  `json:"acodec"`
	VCodec         string  `json:"vcodec"`
	FormatNote     string  `json:"format_note"`
	Quality        float64 `json:"quality"`
}

// RawInfo is the decoded metadata payload for a single video, plus the
// complete payload bytes for persistence.
type RawInfo struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail"`
	Duration  float64     `json:"duration"`
	Formats   []RawFormat `json:"formats"`

	// Raw is the unmodified extractor output.
	Raw json.RawMessage `json:"-"`
}
