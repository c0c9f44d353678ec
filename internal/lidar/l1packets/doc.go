// Package l1packets owns Layer 1 (Packets) of the LD-MRS data model.
//
// Responsibilities: the TCP byte stream to the scanner, capture replay,
// frame delimiting and little/big-endian field decoding. This layer
// produces decoded scan messages consumed by L2 (Frames).
//
// Dependency rule: L1 has no inward dependencies on higher layers.
package l1packets
