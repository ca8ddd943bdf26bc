// Package persist serializes a whole atom group to a compact binary block.
//
// The format is private to this module: a fixed header naming the
// compression codec, followed by one compressed block holding the title,
// field columns, coordinate sets, labels, bonds, and the active-set index.
// Layout: [Magic 4 bytes][Version 1 byte][Compression 1 byte]
// [UncompressedSize uint32][CompressedSize uint32][Data...].
package persist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/molkit/atomstore"
	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

// CompressionType defines the compression algorithm used for the payload
// block.
type CompressionType uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

const (
	formatVersion = 1
)

var magic = [4]byte{'A', 'T', 'S', 'N'}

// ErrBadMagic is returned when the input does not start with the atomstore
// snapshot magic.
var ErrBadMagic = errors.New("not an atomstore snapshot")

// ErrBadVersion is returned for snapshots written by an unknown format
// version.
var ErrBadVersion = errors.New("unsupported snapshot version")

// Save writes a snapshot of g to w using the given compression.
func Save(w io.Writer, g *atomstore.Group, compression CompressionType) error {
	var payload bytes.Buffer
	if err := encodeGroup(&payload, g); err != nil {
		return err
	}

	raw := payload.Bytes()
	compressed, err := compressBlock(raw, compression)
	if err != nil {
		return err
	}
	// A compressed size of 0 in the header marks an uncompressed block
	// (incompressible payload or CompressionNone).
	compSize := uint32(len(compressed))
	if compressed == nil || len(compressed) >= len(raw) {
		compressed = raw
		compSize = 0
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(formatVersion); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(compression)); err != nil {
		return err
	}
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(header[4:], compSize)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	if _, err := bw.Write(compressed); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a snapshot from r and reconstructs the group.
func Load(r io.Reader) (*atomstore.Group, error) {
	br := bufio.NewReader(r)

	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return nil, err
	}
	if head != magic {
		return nil, ErrBadMagic
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}
	compByte, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	header := make([]byte, 8)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, err
	}
	rawSize := binary.LittleEndian.Uint32(header[0:])
	compSize := binary.LittleEndian.Uint32(header[4:])

	if compSize == 0 {
		raw := make([]byte, rawSize)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, err
		}
		return decodeGroup(bytes.NewReader(raw))
	}

	compressed := make([]byte, compSize)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, err
	}
	raw, err := decompressBlock(compressed, CompressionType(compByte), int(rawSize))
	if err != nil {
		return nil, err
	}
	return decodeGroup(bytes.NewReader(raw))
}

func compressBlock(data []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var c lz4.Compressor
		n, err := c.CompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Incompressible; the caller stores the block uncompressed.
			return nil, nil
		}
		return dst[:n], nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unknown compression type: %d", compression)
	}
}

func decompressBlock(data []byte, compression CompressionType, rawSize int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		dst := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, make([]byte, 0, rawSize))
	default:
		return nil, fmt.Errorf("unknown compression type: %d", compression)
	}
}

func encodeGroup(w *bytes.Buffer, g *atomstore.Group) error {
	writeString(w, g.Title())
	writeUint32(w, uint32(g.NumAtoms()))

	// Field columns. numbonds is derived and recomputed from the bond list
	// on load.
	labels := g.DataLabels()
	cols := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "numbonds" {
			continue
		}
		cols = append(cols, label)
	}
	writeUint32(w, uint32(len(cols)))
	for _, label := range cols {
		writeString(w, label)
		if err := encodeArray(w, g.GetData(label)); err != nil {
			return err
		}
	}

	// Coordinate sets with labels and the active index.
	sets, err := g.Coordsets()
	if err != nil {
		return err
	}
	writeUint32(w, uint32(len(sets)))
	for _, cs := range sets {
		writeFloats(w, cs)
	}
	for _, label := range g.CSLabels() {
		writeString(w, label)
	}
	writeUint32(w, uint32(g.ACSIndex()))

	// Bonds.
	pairs := g.BondPairs()
	writeUint32(w, uint32(len(pairs)))
	for _, p := range pairs {
		writeUint32(w, uint32(p.I))
		writeUint32(w, uint32(p.J))
	}
	return nil
}

func decodeGroup(r *bytes.Reader) (*atomstore.Group, error) {
	title, err := readString(r)
	if err != nil {
		return nil, err
	}
	g := atomstore.NewGroup(title)
	nAtoms, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	// The count must be restored before any column is replayed: a snapshot
	// taken after every coordinate set was deleted may carry custom columns
	// whose length only the stored count can validate.
	if err := g.SetNumAtoms(int(nAtoms)); err != nil {
		return nil, err
	}

	nCols, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nCols; i++ {
		label, err := readString(r)
		if err != nil {
			return nil, err
		}
		arr, err := decodeArray(r)
		if err != nil {
			return nil, err
		}
		if err := g.SetData(label, arr); err != nil {
			return nil, err
		}
	}

	nSets, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if nSets > 0 {
		sets := make([][]float64, nSets)
		for i := range sets {
			if sets[i], err = readFloats(r); err != nil {
				return nil, err
			}
		}
		if err := g.SetCoordsets(sets); err != nil {
			return nil, err
		}
		labels := make([]string, nSets)
		for i := range labels {
			if labels[i], err = readString(r); err != nil {
				return nil, err
			}
		}
		if err := g.SetCSLabels(labels); err != nil {
			return nil, err
		}
		acsi, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if err := g.SetACSIndex(int(acsi)); err != nil {
			return nil, err
		}
	} else {
		if _, err := readUint32(r); err != nil { // active index of the empty stack
			return nil, err
		}
	}

	nBonds, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if nBonds > 0 {
		pairs := make([]bond.Pair, nBonds)
		for i := range pairs {
			a, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			b, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			pairs[i] = bond.Pair{I: int(a), J: int(b)}
		}
		if err := g.SetBonds(pairs); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func encodeArray(w *bytes.Buffer, a *field.Array) error {
	w.WriteByte(byte(a.Kind()))
	writeUint32(w, uint32(a.Width()))
	switch a.Kind() {
	case field.KindBool:
		bs := a.BoolSlice()
		writeUint32(w, uint32(len(bs)))
		for _, v := range bs {
			if v {
				w.WriteByte(1)
			} else {
				w.WriteByte(0)
			}
		}
	case field.KindInt:
		is := a.IntSlice()
		writeUint32(w, uint32(len(is)))
		for _, v := range is {
			writeUint64(w, uint64(v))
		}
	case field.KindFloat:
		writeFloats(w, a.FloatSlice())
	case field.KindString:
		ss := a.StringSlice()
		writeUint32(w, uint32(len(ss)))
		for _, v := range ss {
			writeString(w, v)
		}
	default:
		return fmt.Errorf("cannot encode column of kind %s", a.Kind())
	}
	return nil
}

func decodeArray(r *bytes.Reader) (*field.Array, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	kind := field.Kind(kindByte)
	width, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	switch kind {
	case field.KindBool:
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		bs := make([]bool, n)
		for i := range bs {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			bs[i] = b != 0
		}
		return field.Bools(bs), nil
	case field.KindInt:
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		is := make([]int64, n)
		for i := range is {
			v, err := readUint64(r)
			if err != nil {
				return nil, err
			}
			is[i] = int64(v)
		}
		if width > 1 {
			return field.Ints2D(is, int(width))
		}
		return field.Ints(is), nil
	case field.KindFloat:
		fs, err := readFloats(r)
		if err != nil {
			return nil, err
		}
		if width > 1 {
			return field.Floats2D(fs, int(width))
		}
		return field.Floats(fs), nil
	case field.KindString:
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		ss := make([]string, n)
		for i := range ss {
			if ss[i], err = readString(r); err != nil {
				return nil, err
			}
		}
		return field.Strings(ss), nil
	default:
		return nil, fmt.Errorf("cannot decode column of kind %d", kindByte)
	}
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func writeUint64(w *bytes.Buffer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

func writeString(w *bytes.Buffer, s string) {
	writeUint32(w, uint32(len(s)))
	w.WriteString(s)
}

func writeFloats(w *bytes.Buffer, fs []float64) {
	writeUint32(w, uint32(len(fs)))
	for _, v := range fs {
		writeUint64(w, math.Float64bits(v))
	}
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readFloats(r *bytes.Reader) ([]float64, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	fs := make([]float64, n)
	for i := range fs {
		v, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		fs[i] = math.Float64frombits(v)
	}
	return fs, nil
}
