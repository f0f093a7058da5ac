package usecase

import "errors"

var (
	// ErrInvalidArgument is returned when compare is not given exactly two files.
	ErrInvalidArgument = errors.New("exactly two snapshot files are required")
	// ErrInvalidSnapshotName is returned when a filename carries no timestamp after the stocklist prefix.
	ErrInvalidSnapshotName = errors.New("snapshot filename has no timestamp")
	// ErrNotEnoughSnapshots is returned when fewer than two stocklist snapshots exist.
	ErrNotEnoughSnapshots = errors.New("fewer than two snapshots available")
)
