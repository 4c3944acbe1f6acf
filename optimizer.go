package tex2html

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSvgUnit is the physical unit forced onto SVG dimensions.
const DefaultSvgUnit = "pt"

var (
	svgOpenTagPattern = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	viewBoxPattern    = regexp.MustCompile(`viewBox\s*=\s*"([^"]*)"`)
	numberPattern     = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?`)
)

// UnitNormalizer forces explicit physical units on an SVG's width and height
// attributes. Dimensions come from the viewBox third and fourth numbers when
// present; otherwise any existing numeric width/height value is reinterpreted
// under the target unit, stripping whatever unit it carried.
type UnitNormalizer struct {
	unit string
}

// NewUnitNormalizer creates a normalizer for the given unit ("" selects pt).
func NewUnitNormalizer(unit string) *UnitNormalizer {
	if unit == "" {
		unit = DefaultSvgUnit
	}
	return &UnitNormalizer{unit: unit}
}

// Optimize rewrites the root element's width/height in place. SVGs without a
// usable viewBox or numeric dimensions pass through unchanged.
func (n *UnitNormalizer) Optimize(svg []byte) ([]byte, error) {
	loc := svgOpenTagPattern.FindIndex(svg)
	if loc == nil {
		return svg, nil
	}
	tag := string(svg[loc[0]:loc[1]])

	width, height, ok := n.dimensionsFrom(tag)
	if !ok {
		return svg, nil
	}

	tag = setTagAttr(tag, "width", width+n.unit)
	tag = setTagAttr(tag, "height", height+n.unit)

	out := make([]byte, 0, len(svg)+len(tag))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	out = append(out, svg[loc[1]:]...)
	return out, nil
}

// dimensionsFrom extracts unitless width/height numbers from the opening tag.
func (n *UnitNormalizer) dimensionsFrom(tag string) (width, height string, ok bool) {
	if m := viewBoxPattern.FindStringSubmatch(tag); m != nil {
		fields := strings.Fields(strings.ReplaceAll(m[1], ",", " "))
		if len(fields) == 4 {
			return fields[2], fields[3], true
		}
	}

	width = numberPattern.FindString(tagAttr(tag, "width"))
	height = numberPattern.FindString(tagAttr(tag, "height"))
	if width == "" || height == "" {
		return "", "", false
	}
	return width, height, true
}

// tagAttr returns the value of a double-quoted attribute in tag, or "".
func tagAttr(tag, name string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*=\s*"([^"]*)"`)
	if m := pattern.FindStringSubmatch(tag); m != nil {
		return m[1]
	}
	return ""
}

// setTagAttr replaces or inserts a double-quoted attribute in an opening tag.
func setTagAttr(tag, name, value string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*=\s*"[^"]*"`)
	replacement := fmt.Sprintf(`%s="%s"`, name, value)
	if pattern.MatchString(tag) {
		return pattern.ReplaceAllString(tag, replacement)
	}
	if strings.HasSuffix(tag, "/>") {
		return tag[:len(tag)-2] + " " + replacement + "/>"
	}
	return tag[:len(tag)-1] + " " + replacement + ">"
}

// OptimizerFunc adapts a function to the Optimizer interface.
type OptimizerFunc func(svg []byte) ([]byte, error)

// Optimize calls f.
func (f OptimizerFunc) Optimize(svg []byte) ([]byte, error) { return f(svg) }
