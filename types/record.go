package types

import (
	"encoding/binary"
	"math"
)

// Record is the single row type of the engine. All fields are fixed-width,
// so a record serializes to exactly RecordSize bytes.
type Record struct {
	ID        int64
	Amount    float64
	Region    int32
	ProductID int32
	Timestamp int64
}

// RecordSize is the on-disk size of one record: i64 + f64 + i32 + i32 + i64,
// packed little-endian with no padding.
const RecordSize = 32

// AppendBinary appends the little-endian encoding of r to buf.
func (r Record) AppendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.ID))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Amount))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(r.Region))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(r.ProductID))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Timestamp))
	return buf
}

// DecodeRecord reads one record from buf. buf must hold at least RecordSize bytes.
func DecodeRecord(buf []byte) Record {
	return Record{
		ID:        int64(binary.LittleEndian.Uint64(buf[0:8])),
		Amount:    math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		Region:    int32(binary.LittleEndian.Uint32(buf[16:20])),
		ProductID: int32(binary.LittleEndian.Uint32(buf[20:24])),
		Timestamp: int64(binary.LittleEndian.Uint64(buf[24:32])),
	}
}
