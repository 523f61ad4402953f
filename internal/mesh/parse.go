package mesh

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	meshBlockRe  = regexp.MustCompile(`(?s)#\*# \[bed_mesh default\](.*?)(?:#\*# \[|$)`)
	meshPointsRe = regexp.MustCompile(`#\*#\s+([-0-9.,\s]+)`)
)

// ParseLatestMesh parses the #*# [bed_mesh default] block written by Klipper
// at the bottom of printer.cfg. It returns a fully populated Grid or an error
// describing the first problem found; it never returns a partial grid.
func ParseLatestMesh(content string) (*Grid, error) {
	m := meshBlockRe.FindStringSubmatch(content)
	if m == nil {
		return nil, fmt.Errorf("no #*# [bed_mesh default] block found")
	}
	block := m[1]

	param := func(name string) (float64, error) {
		re := regexp.MustCompile(`#\*# ` + regexp.QuoteMeta(name) + ` = ([\d.eE+-]+)`)
		pm := re.FindStringSubmatch(block)
		if pm == nil {
			return 0, fmt.Errorf("missing parameter %s in bed_mesh block", name)
		}
		v, err := strconv.ParseFloat(pm[1], 64)
		if err != nil {
			return 0, fmt.Errorf("bad value for %s: %w", name, err)
		}
		return v, nil
	}

	var (
		xCountF, yCountF       float64
		minX, maxX, minY, maxY float64
		err                    error
	)
	if xCountF, err = param("x_count"); err != nil {
		return nil, err
	}
	if yCountF, err = param("y_count"); err != nil {
		return nil, err
	}
	if minX, err = param("min_x"); err != nil {
		return nil, err
	}
	if maxX, err = param("max_x"); err != nil {
		return nil, err
	}
	if minY, err = param("min_y"); err != nil {
		return nil, err
	}
	if maxY, err = param("max_y"); err != nil {
		return nil, err
	}
	xCount := int(xCountF)
	yCount := int(yCountF)
	if xCount < 2 || yCount < 2 {
		return nil, fmt.Errorf("mesh counts out of range: %dx%d", xCount, yCount)
	}

	var vals []float64
	for _, pm := range meshPointsRe.FindAllStringSubmatch(block, -1) {
		fields := strings.FieldsFunc(pm[1], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("bad mesh point value %q: %w", f, err)
			}
			vals = append(vals, v)
		}
	}

	if len(vals) != xCount*yCount {
		return nil, fmt.Errorf("mesh point count mismatch: got %d, expected %d",
			len(vals), xCount*yCount)
	}

	z := make([][]float64, yCount)
	for j := 0; j < yCount; j++ {
		z[j] = vals[j*xCount : (j+1)*xCount]
	}

	return &Grid{
		Z:       z,
		XCoords: linspace(minX, maxX, xCount),
		YCoords: linspace(minY, maxY, yCount),
		MinX:    minX,
		MaxX:    maxX,
		MinY:    minY,
		MaxY:    maxY,
	}, nil
}
