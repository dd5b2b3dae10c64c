// Package protocol owns the bit-level header codec and its error contract.
//
// Ownership boundary:
// - bits: fixed-width fields and MSB-first packing over an index arena
// - checksum: pluggable digest/verify strategies (RMAP CRC8, PUS CRC16)
// - schema: frozen header blueprints, composition and sub-windows
// - packet: mutable instances cloned from a schema, wire assembly/disassembly
package protocol
