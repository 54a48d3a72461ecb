package html

// StyleKind identifies which AMP style block a <style> element is
type StyleKind int

const (
	// OtherStyle is a <style> element without an AMP marker attribute
	OtherStyle StyleKind = iota
	// AmpCustom is <style amp-custom>, the author stylesheet
	AmpCustom
	// AmpKeyframes is <style amp-keyframes>, which may only hold keyframes
	AmpKeyframes
)

func (k StyleKind) String() string {
	switch k {
	case AmpCustom:
		return "amp-custom"
	case AmpKeyframes:
		return "amp-keyframes"
	}
	return "style"
}

// Location is where a region starts in the HTML source. Line and Col are
// 1-based, Col counts code points and Offset counts bytes.
type Location struct {
	Offset int
	Line   int
	Col    int
}

// StyleRegion is the text content of one <style> element
type StyleRegion struct {
	Content string
	Kind    StyleKind
	Start   Location
}

// URLAttribute is a URL-bearing attribute found on an element
type URLAttribute struct {
	Tag   string
	Name  string
	Value string
	// Start locates the value, or the attribute name when there is no value
	Start Location
}

// Extraction is what one parse of a document yields
type Extraction struct {
	Styles []StyleRegion
	URLs   []URLAttribute
}
