package iso9660

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"testing"
)

func TestNewFile_Identifier(t *testing.T) {
	tests := []struct {
		ident   string
		name    string
		version uint16
	}{
		{ident: "README.TXT;1", name: "README.TXT", version: 1},
		{ident: "NOEXT.;3", name: "NOEXT", version: 3},
		{ident: "PLAIN", name: "PLAIN", version: 1},
		{ident: "a.b.c;12", name: "a.b.c", version: 12},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			f, err := newFile(Header{}, tt.ident, Handle{})
			if err != nil {
				t.Fatalf("newFile err: %v", err)
			}
			if f.Name() != tt.name || f.Version() != tt.version {
				t.Fatalf("name=%q version=%d want %q %d", f.Name(), f.Version(), tt.name, tt.version)
			}
			if f.Identifier() != tt.ident {
				t.Fatalf("Identifier()=%q want %q", f.Identifier(), tt.ident)
			}
		})
	}
}

func TestNewFile_BadVersion(t *testing.T) {
	for _, ident := range []string{"A;", "A;X", "A;70000"} {
		_, err := newFile(Header{}, ident, Handle{})
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindParseInt {
			t.Fatalf("newFile(%q) err=%v want KindParseInt", ident, err)
		}
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) {
			t.Fatalf("newFile(%q) err=%v does not wrap *strconv.NumError", ident, err)
		}
	}
}

func TestFile_Open(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef"), 300) // 4800 bytes, 3 sectors
	img := newMemImage(30)
	img.put(25, content)

	f, err := newFile(fileRecord("DATA.BIN;1", 25, uint32(len(content))).header(), "DATA.BIN;1", img.handle())
	if err != nil {
		t.Fatal(err)
	}
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll err: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("data mismatch: got len=%d want len=%d", len(got), len(content))
	}
}

func TestFile_OpenTruncatedImageTail(t *testing.T) {
	content := []byte("tail of the medium")
	data := append(make([]byte, 25*SectorSize), content...)

	f, err := newFile(fileRecord("T;1", 25, uint32(len(content))).header(), "T;1", NewHandle(NewMemoryReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	rc, _ := f.Open()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll err: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("got %q want %q", got, content)
	}
}

func TestFile_OpenShortReadInsideExtent(t *testing.T) {
	data := append(make([]byte, 25*SectorSize), make([]byte, 10)...)
	f, err := newFile(fileRecord("T;1", 25, 4000).header(), "T;1", NewHandle(NewMemoryReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	rc, _ := f.Open()
	_, err = io.ReadAll(rc)
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("err=%v want short read", err)
	}
}

func TestFile_EmptyOpen(t *testing.T) {
	f, err := newFile(fileRecord("E;1", 0, 0).header(), "E;1", Handle{})
	if err != nil {
		t.Fatal(err)
	}
	rc, _ := f.Open()
	got, err := io.ReadAll(rc)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %d bytes err=%v want empty", len(got), err)
	}
}
