package source

import "math"

// demoNoData marks the cells Demo leaves empty.
const demoNoData = -32768

// Demo returns a synthetic single-band elevation raster of w x h cells
// centered on (lng, lat) with cells of the given size in degrees. Two
// gaussian hills sit on a gentle slope; a round lake in the south-east
// quarter is no-data.
func Demo(w, h int, lng, lat, cell float64) *Raster {
	noData := float64(demoNoData)
	rows := make([][]float64, h)
	for j := range rows {
		rows[j] = make([]float64, w)
		// u, v in [0, 1], v = 1 on the north row.
		v := 1 - (float64(j)+0.5)/float64(h)
		for i := range rows[j] {
			u := (float64(i) + 0.5) / float64(w)
			if math.Hypot(u-0.75, v-0.25) < 0.1 {
				rows[j][i] = noData
				continue
			}
			z := 200 + 300*v +
				900*math.Exp(-(sq(u-0.3)+sq(v-0.6))/0.02) +
				500*math.Exp(-(sq(u-0.65)+sq(v-0.7))/0.01)
			rows[j][i] = math.Round(z)
		}
	}

	halfW, halfH := float64(w)*cell/2, float64(h)*cell/2
	return &Raster{
		Width:       w,
		Height:      h,
		CellWidth:   cell,
		CellHeight:  -cell,
		NoDataValue: &noData,
		XMin:        lng - halfW,
		XMax:        lng + halfW,
		YMin:        lat - halfH,
		YMax:        lat + halfH,
		Projection:  EPSG4326,
		Bands:       []Band{{Values: rows}},
	}
}

func sq(x float64) float64 { return x * x }
