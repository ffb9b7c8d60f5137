// errors.go - Error kinds shared across the proving pipeline.

package notevault

import "errors"

var (
	// ErrConstruction reports inputs rejected before any proving work
	// happens: out-of-range field values, oversized leaf sets, bad leaf
	// widths, invalid parameters.
	ErrConstruction = errors.New("notevault: invalid construction")

	// ErrUnsatisfiedRelation reports a witness that fails the possession
	// relation natively. Prove refuses to run the backend on such a
	// witness, so no proof is ever produced for it.
	ErrUnsatisfiedRelation = errors.New("notevault: relation not satisfied")

	// ErrSerialConsumed reports a serial number already present in the
	// ledger's consumed list.
	ErrSerialConsumed = errors.New("notevault: serial number already consumed")

	// ErrSerialization reports a corrupt or truncated artifact on disk.
	ErrSerialization = errors.New("notevault: corrupt artifact")
)
