package backend

import "strings"

// Quality is the user-selectable bitrate tier for retrieved audio.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// qualityHint maps a tier to the encoder hints passed to sources.
// Sources that cannot honor a tier fall back to their nearest option.
type qualityHint struct {
	BitrateKbps int
	Format      string
	Label       string
}

var qualityHints = map[Quality]qualityHint{
	QualityHigh:   {320, "mp3", "High Quality (320kbps)"},
	QualityMedium: {192, "mp3", "Medium Quality (192kbps)"},
	QualityLow:    {128, "mp3", "Low Quality (128kbps)"},
}

// ParseQuality normalizes a quality token. Unknown tokens return ok=false.
func ParseQuality(s string) (Quality, bool) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	_, ok := qualityHints[q]
	return q, ok
}

// BitrateKbps returns the target bitrate for the tier.
// Unknown tiers default to Medium.
func (q Quality) BitrateKbps() int {
	if h, ok := qualityHints[q]; ok {
		return h.BitrateKbps
	}
	return qualityHints[QualityMedium].BitrateKbps
}

// Format returns the target audio container for the tier.
func (q Quality) Format() string {
	if h, ok := qualityHints[q]; ok {
		return h.Format
	}
	return qualityHints[QualityMedium].Format
}

// Label returns the human-readable description shown on quality buttons.
func (q Quality) Label() string {
	if h, ok := qualityHints[q]; ok {
		return h.Label
	}
	return qualityHints[QualityMedium].Label
}
