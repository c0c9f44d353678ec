package l2frames

import "github.com/banshee-data/ldmrs/internal/lidar"

// Type aliases re-export the shared scan model from the parent package.

// ScanPoint is a single first-echo return in polar terms.
type ScanPoint = lidar.ScanPoint

// LaserScan is one layer of one revolution.
type LaserScan = lidar.LaserScan

// NumLayers is the number of layers per revolution.
const NumLayers = lidar.NumLayers
