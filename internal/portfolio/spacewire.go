package portfolio

import (
	"sync"

	"github.com/danmuck/spwkit/internal/protocol/checksum"
	"github.com/danmuck/spwkit/internal/protocol/schema"
)

// Building blocks. They are registered too, so schema files can include them.
const (
	PID                 = "PID"
	PUSPrimeHeader      = "PUS_PRIME_HEADER"
	RMAPInstruction     = "instruction"
	RMAPCommonAll       = "commonAll"
	RMAPCommonInitiator = "rmapCommonInitiator"
)

// Packet prototypes.
const (
	PUSTC          = "PUS_TC"
	PUSTM          = "PUS_TM"
	CPTP           = "CPTP"
	Native         = "NATIVE"
	RMAPWrite      = "RMAP_WRITE"
	RMAPWriteReply = "RMAP_WRITE_REPLY"
	RMAPRead       = "RMAP_READ"
	RMAPReadReply  = "RMAP_READ_REPLY"
)

// SpaceWire protocol identifiers carried in the protocolId field.
const (
	ProtocolRMAP   = 1
	ProtocolCPTP   = 2
	ProtocolNative = 240
)

var (
	spacewireOnce sync.Once
	spacewire     []*schema.Schema
)

// SpaceWire returns a new registry holding the SpaceWire, RMAP and PUS
// prototypes. The prototypes are built once and shared between registries.
func SpaceWire() *Registry {
	spacewireOnce.Do(func() {
		spacewire = buildSpaceWire()
	})
	r := NewRegistry()
	r.MustRegister(spacewire...)
	return r
}

func buildSpaceWire() []*schema.Schema {
	pid := schema.NewBuilder(PID).
		AddField("logicAddress", 8, 0).
		AddField("protocolId", 8, 0).
		MustBuild()

	prime := schema.NewBuilder(PUSPrimeHeader).
		AddField("pkgVersion", 3, 0).
		AddField("pkgType", 1, 1).
		AddField("secondHeaderFlag", 1, 0).
		AddField("apid", 11, 0).
		AddField("seqFlags", 2, 0).
		AddField("seqCounter", 14, 0).
		MustBuild()

	pusTC := schema.NewBuilder(PUSTC, schema.WithChecksum(checksum.CRC16PUS, false)).
		AddFieldsFrom(prime).
		AddField("length", 16, 0).
		AddField("pusVersion", 4, 0).
		AddField("ackFlags", 4, 0).
		AddField("service", 8, 0).
		AddField("subService", 8, 0).
		AddField("sourceId", 16, 0).
		MustBuild()

	pusTM := schema.NewBuilder(PUSTM, schema.WithChecksum(checksum.CRC16PUS, false)).
		AddFieldsFrom(prime).
		SetDefault("pkgType", 0).
		AddField("length", 16, 0).
		AddField("pusVersion", 4, 0).
		AddField("timeRefStatus", 4, 0).
		AddField("service", 8, 0).
		AddField("subService", 8, 0).
		AddField("typeSeqCounter", 16, 0).
		AddField("destId", 16, 0).
		MustBuild()

	cptp := schema.NewBuilder(CPTP).
		AddFieldsFrom(pid).
		SetDefault("protocolId", ProtocolCPTP).
		AddField("reserved", 8, 0).
		AddField("userApplication", 8, 0).
		MustBuild()

	native := schema.NewBuilder(Native).
		AddFieldsFrom(cptp).
		SetDefault("protocolId", ProtocolNative).
		MustBuild()

	instruction := schema.NewBuilder(RMAPInstruction).
		AddField("reserved", 1, 0).
		AddField("isCommand", 1, 0).
		AddField("isWrite", 1, 0).
		AddField("verify", 1, 0).
		AddField("reply", 1, 0).
		AddField("increment", 1, 0).
		AddField("replyAddressLength", 2, 0).
		MustBuild()

	commonAll := schema.NewBuilder(RMAPCommonAll).
		AddFieldsFrom(pid).
		SetDefault("protocolId", ProtocolRMAP).
		AddFieldsFrom(instruction).
		AddField("statusKey", 8, 0).
		AddField("senderAddress", 8, 0).
		AddField("transId", 16, 0).
		MustBuild()

	initiator := schema.NewBuilder(RMAPCommonInitiator).
		AddFieldsFrom(commonAll).
		AddField("extendedAddress", 8, 0).
		AddField("address", 32, 0).
		AddField("dataLength", 24, 0).
		MustBuild()

	rmap := func(name string) *schema.Builder {
		return schema.NewBuilder(name, schema.WithChecksum(checksum.CRC8RMAP, true))
	}
	write := rmap(RMAPWrite).AddFieldsFrom(initiator).MustBuild()
	writeReply := rmap(RMAPWriteReply).AddFieldsFrom(commonAll).MustBuild()
	read := rmap(RMAPRead).AddFieldsFrom(initiator).MustBuild()
	readReply := rmap(RMAPReadReply).
		AddFieldsFrom(commonAll).
		AddField("reserved", 8, 0).
		AddField("dataLength", 24, 0).
		MustBuild()

	return []*schema.Schema{
		pid, prime, instruction, commonAll, initiator,
		pusTC, pusTM, cptp, native,
		write, writeReply, read, readReply,
	}
}
