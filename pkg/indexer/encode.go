package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"parindex/pkg/utils/binary"
)

// WriteTo writes the index in term insertion order: each term, the length
// of its list, then docID and frequency of every appearance. Two indexes
// with the same content and order produce the same bytes.
func (g *GlobalIndex) WriteTo(w io.Writer) (int64, error) {
	bw := binary.NewByteWriter(w)

	var err error
	g.Each(func(term string, list PostingList) {
		if err != nil {
			return
		}
		err = writeList(bw, term, list)
	})
	if err != nil {
		return bw.Total(), err
	}

	return bw.Total(), bw.Flush()
}

func writeList(bw *binary.ByteWriter, term string, list PostingList) error {
	if err := bw.WriteString(term); err != nil {
		return err
	}
	if err := bw.WriteInt(len(list)); err != nil {
		return err
	}
	for _, a := range list {
		if err := bw.WriteString(a.DocID); err != nil {
			return err
		}
		if err := bw.WriteInt(a.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// Digest is the hex SHA-256 of the WriteTo encoding.
func (g *GlobalIndex) Digest() string {
	h := sha256.New()
	// hash.Hash writes never fail
	_, _ = g.WriteTo(h)
	return hex.EncodeToString(h.Sum(nil))
}
