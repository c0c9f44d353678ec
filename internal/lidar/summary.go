package lidar

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LayerSummary describes the range distribution of one layer of one scan.
type LayerSummary struct {
	Layer     int
	Points    int
	MinRange  float64
	MaxRange  float64
	MeanRange float64
	StdRange  float64
}

// Summarize computes range statistics for each layer. Layers with no points
// report zero for every range field.
func Summarize(scans *[NumLayers]LaserScan) [NumLayers]LayerSummary {
	var out [NumLayers]LayerSummary
	var ranges []float64
	for i := range scans {
		out[i].Layer = i
		pts := scans[i].Points
		if len(pts) == 0 {
			continue
		}

		ranges = ranges[:0]
		for _, p := range pts {
			ranges = append(ranges, p.Range)
		}

		out[i].Points = len(ranges)
		out[i].MinRange = floats.Min(ranges)
		out[i].MaxRange = floats.Max(ranges)
		if len(ranges) > 1 {
			out[i].MeanRange, out[i].StdRange = stat.MeanStdDev(ranges, nil)
		} else {
			out[i].MeanRange = ranges[0]
		}
	}
	return out
}
