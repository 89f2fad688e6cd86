package metadata

const (
	InvalidID       uint32 = 4294967295
	InvalidIDUint16 uint16 = 65535
)
