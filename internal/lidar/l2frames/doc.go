// Package l2frames owns Layer 2 (Frames) of the LD-MRS data model.
//
// Responsibilities: turning one decoded scan-data message into the four
// per-layer LaserScan records of a revolution, and bringing device
// timestamps into the host clock domain.
// Key types: Assembler, TimeSync.
//
// Dependency rule: L2 may depend on L1 (l1packets/parse), never the reverse.
package l2frames
