package si7006

import "fmt"

// IdentificationError is returned by New when the electronic ID read from the
// bus does not carry the Si7006 device family code.
type IdentificationError struct {
	Got byte
}

func (e *IdentificationError) Error() string {
	return fmt.Sprintf("si7006: device family 0x%02x is not a Si7006", e.Got)
}

// NoDataError is returned when a reading is requested before any measurement
// has completed successfully.
type NoDataError struct{}

func (e *NoDataError) Error() string {
	return "si7006: no measurement available yet"
}
