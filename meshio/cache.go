package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/soypat/hapt"
)

const cacheMagic = "HAPTCON1"

// ErrStaleCache is returned when a connectivity cache was written for a
// different mesh.
var ErrStaleCache = errors.New("meshio: connectivity cache does not match mesh")

type cacheHeader struct {
	Magic       [8]byte
	Fingerprint uint64
	NumTets     uint32
	ExtFaces    uint32
}

// WriteConCache writes conn as a compressed binary cache tagged with the
// fingerprint of mesh m.
func WriteConCache(w io.Writer, m *hapt.Mesh, conn *hapt.Connectivity) error {
	if conn.NumCells() != len(m.Tetras) {
		return fmt.Errorf("meshio: connectivity has %d cells, mesh has %d", conn.NumCells(), len(m.Tetras))
	}
	hdr := cacheHeader{
		Fingerprint: m.Fingerprint(),
		NumTets:     uint32(len(m.Tetras)),
		ExtFaces:    uint32(conn.ExtFaces),
	}
	copy(hdr.Magic[:], cacheMagic)
	raw := make([]byte, 16*len(conn.Adj))
	for i, adj := range conn.Adj {
		for f, nb := range adj {
			binary.LittleEndian.PutUint32(raw[16*i+4*f:], uint32(nb))
		}
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	_, err = w.Write(enc.EncodeAll(raw, nil))
	return err
}

// ReadConCache reads a connectivity cache written by WriteConCache for mesh m.
// ErrStaleCache is returned if the cache belongs to another mesh.
func ReadConCache(r io.Reader, m *hapt.Mesh) (*hapt.Connectivity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var hdr cacheHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("meshio: reading cache header: %w", err)
	}
	if string(hdr.Magic[:]) != cacheMagic {
		return nil, errors.New("meshio: not a connectivity cache")
	}
	if hdr.Fingerprint != m.Fingerprint() || int(hdr.NumTets) != len(m.Tetras) {
		return nil, ErrStaleCache
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data[binary.Size(hdr):], nil)
	if err != nil {
		return nil, fmt.Errorf("meshio: decompressing cache: %w", err)
	}
	if len(raw) != 16*int(hdr.NumTets) {
		return nil, fmt.Errorf("meshio: cache holds %d bytes of adjacency, want %d", len(raw), 16*hdr.NumTets)
	}
	adj := make([][4]hapt.Neighbor, hdr.NumTets)
	for i := range adj {
		for f := range adj[i] {
			adj[i][f] = hapt.Neighbor(binary.LittleEndian.Uint32(raw[16*i+4*f:]))
		}
	}
	conn, err := hapt.NewConnectivity(adj)
	if err != nil {
		return nil, err
	}
	if conn.ExtFaces != int(hdr.ExtFaces) {
		return nil, fmt.Errorf("%w: cache records %d boundary faces, found %d", hapt.ErrMalformedMesh, hdr.ExtFaces, conn.ExtFaces)
	}
	return conn, nil
}
