// Package detector describes named data sources.
//
// A Channel identifies one recorded data stream by its canonical name,
// conventionally IFO:SYSTEM-SUBSYSTEM_SIGNAL (for example
// "H1:LSC-DARM_ERR"), and optionally carries the stream's physical unit
// and sample rate. Series constructors use the sample rate to default
// their axis step.
package detector
