package iso9660

import "testing"

func FuzzDecodeRecord(f *testing.F) {
	f.Add(fileRecord("README.TXT;1", 20, 100).bytes(), 2048)
	f.Add(dirRecord(SelfIdentifier, 20, SectorSize).bytes(), 34)
	f.Add([]byte{0}, 10)
	f.Add([]byte{35, 0, 0}, 40)

	f.Fuzz(func(t *testing.T, data []byte, remaining int) {
		h, ident, err := decodeRecord(data, remaining)
		if err != nil || h.Length == 0 {
			return
		}
		if h.Length < recordMinLength || h.Length%2 != 0 {
			t.Fatalf("accepted invalid length %d", h.Length)
		}
		if int(h.Length) > remaining || int(h.Length) > len(data) {
			t.Fatalf("length %d exceeds remaining=%d len=%d", h.Length, remaining, len(data))
		}
		if len(ident) != int(h.IdentifierLen) {
			t.Fatalf("identifier len=%d header says %d", len(ident), h.IdentifierLen)
		}
	})
}

func FuzzContents(f *testing.F) {
	f.Add(sector(dirRecord(SelfIdentifier, 1, SectorSize), dirRecord(ParentIdentifier, 1, SectorSize), fileRecord("A;1", 1, 4)))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 4*SectorSize {
			return
		}
		dir := NewDirectory(dirRecord("F", 0, uint32(len(data))).header(), "F", NewHandle(NewMemoryReader(data)))
		entries, err := dir.Contents()
		if err != nil && entries != nil {
			t.Fatalf("partial result %d entries with err %v", len(entries), err)
		}
	})
}
