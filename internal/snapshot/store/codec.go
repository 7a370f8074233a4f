package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

const formatVersion = 1

type fileDoc struct {
	Format     int             `json:"format"`
	ID         uuid.UUID       `json:"id"`
	Source     string          `json:"source"`
	CapturedAt time.Time       `json:"captured_at"`
	Checksum   string          `json:"checksum"`
	Tables     json.RawMessage `json:"tables"`
}

type fileTable struct {
	Name    string          `json:"name"`
	Columns []source.Column `json:"columns"`
	Records []source.Record `json:"records"`
}

func checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

func encode(s *snapshot.Snapshot) ([]byte, error) {
	tables := s.Tables()
	ft := make([]fileTable, len(tables))
	for i, t := range tables {
		ft[i] = fileTable{Name: t.Name, Columns: t.Columns, Records: t.Records}
	}
	payload, err := json.Marshal(ft)
	if err != nil {
		return nil, fmt.Errorf("encode tables: %w", err)
	}

	m := s.Meta()
	doc, err := json.Marshal(fileDoc{
		Format:     formatVersion,
		ID:         m.ID,
		Source:     m.Source,
		CapturedAt: m.CapturedAt,
		Checksum:   checksum(payload),
		Tables:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(doc, nil), nil
}

// decode reverses encode. Every error it returns means the data is not a snapshot.
func decode(data []byte) (*snapshot.Snapshot, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Format != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", doc.Format)
	}
	if got := checksum(doc.Tables); got != doc.Checksum {
		return nil, fmt.Errorf("checksum mismatch: stored %s, computed %s", doc.Checksum, got)
	}

	var ft []fileTable
	if err := json.Unmarshal(doc.Tables, &ft); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	tables := make([]snapshot.Table, len(ft))
	for i, t := range ft {
		tables[i] = snapshot.Table{Name: t.Name, Columns: t.Columns, Records: t.Records}
	}
	return snapshot.New(snapshot.Meta{ID: doc.ID, Source: doc.Source, CapturedAt: doc.CapturedAt}, tables)
}
