package render

// Card canvas dimensions in pixels at 300dpi, excluding bleed.
const (
	CardWidth  = 750
	CardHeight = 1050
	CardBleed  = 72
	EdgeBleed  = CardBleed / 2
)

// Region is a placement rectangle from a face's layout data. Coordinates in
// layout data exclude bleed; parsing shifts them onto the bled canvas.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int

	IsAttached   bool
	AttachBefore string
	AttachAfter  string
}

// ParseRegion builds a Region from a `<field>_region` object.
func ParseRegion(data map[string]any) Region {
	region := Region{
		X:      intValue(data, "x"),
		Y:      intValue(data, "y"),
		Width:  intValue(data, "width"),
		Height: intValue(data, "height"),
	}
	region.X += EdgeBleed
	region.Y += EdgeBleed
	if data != nil {
		region.IsAttached, _ = data["is_attached"].(bool)
		region.AttachBefore, _ = data["attach_before"].(string)
		region.AttachAfter, _ = data["attach_after"].(string)
	}
	return region
}

// Valid reports whether the region can render anything on its own.
func (r Region) Valid() bool {
	return r.Width > 0 && r.Height > 0 || r.IsAttached
}

func intValue(data map[string]any, key string) int {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
