package bplus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"ApproxDB/types"

	"go.uber.org/zap"
)

// Snapshot layout, little-endian:
//   u64 total_records
//   u64 tree_height
//   u64 record_count
//   record_count * Record (types.RecordSize bytes each)

// SaveToFile writes the whole tree as a flat record snapshot.
func (t *BPlusTree) SaveToFile(path string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bplus: save snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var hdr [24]byte
	records := t.collectLeafRecordsLocked()
	binary.LittleEndian.PutUint64(hdr[0:8], t.totalRecords)
	binary.LittleEndian.PutUint64(hdr[8:16], t.height)
	binary.LittleEndian.PutUint64(hdr[16:24], uint64(len(records)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("bplus: save snapshot: %w", err)
	}

	buf := make([]byte, 0, types.RecordSize)
	for i := range records {
		buf = records[i].AppendBinary(buf[:0])
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("bplus: save snapshot: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("bplus: save snapshot: %w", err)
	}
	t.logger.Info("saved snapshot",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return nil
}

// LoadFromFile rebuilds the tree from a snapshot by bulk-inserting the
// stored records into a fresh root.
func (t *BPlusTree) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bplus: load snapshot: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var hdr [24]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("bplus: load snapshot header: %w", err)
	}
	count := binary.LittleEndian.Uint64(hdr[16:24])

	records := make([]types.Record, 0, count)
	buf := make([]byte, types.RecordSize)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("bplus: load snapshot record %d: %w", i, err)
		}
		records = append(records, types.DecodeRecord(buf))
	}

	t.mu.Lock()
	t.root = newNode(NodeLeaf)
	t.totalRecords = 0
	t.height = 1
	t.cached = nil
	t.cachedValid = false
	t.version++
	t.mu.Unlock()

	t.InsertBatch(records)
	t.logger.Info("loaded snapshot",
		zap.String("path", path),
		zap.Uint64("records", count),
	)
	return nil
}
