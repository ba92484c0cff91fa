// Package frame serializes annotated arrays, series and grids into a
// compact binary container and restores them bit for bit.
//
// A frame is a 16-byte fixed header ("GWSF", version, byte-order flag,
// kind, sample type, codec, rank), the shape, a metadata block (name,
// unit, epoch, channel, extras, each with explicit presence), one axis
// block per indexed dimension, and the sample payload with its raw byte
// length. Payloads optionally pass through zstd, s2 or lz4. Frames are
// little-endian by default; decoding honors the header's byte-order flag
// either way.
//
// Round-trips restore the exact sample bits and the exact metadata key
// set: a key absent on encode is absent after decode. Axes travel in
// their regular origin/step form; an irregular explicit index is reduced
// to that form.
package frame
