package render

// RunStyle captures the run formatting applied through a paragraph style.
type RunStyle struct {
	Font string
	Bold bool
	Size int // half-points
}

const (
	BodyFont  = "Arial"
	BodySize  = 24
	TitleSize = 32

	// TitleText heads every generated document ("resume content").
	TitleText = "簡歷內容"
)

// StyleMap lists the paragraph styles written to word/styles.xml.
var StyleMap = map[string]RunStyle{
	"Normal": {
		Font: BodyFont,
		Size: BodySize,
	},
	"Title": {
		Font: BodyFont,
		Bold: true,
		Size: TitleSize,
	},
}
