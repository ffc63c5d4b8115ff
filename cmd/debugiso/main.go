package main

import (
	"flag"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/s0up4200/go-isowalk/internal/iso9660"
)

func main() {
	isoPath := flag.String("iso", "", "path to ISO 9660 image")
	dirPath := flag.String("path", "/", "directory to dump")
	head := flag.Int("head", 8, "bytes of each file to print (0 to skip)")
	flag.Parse()
	if *isoPath == "" {
		log.Fatal("-iso required")
	}

	img, err := iso9660.OpenFile(*isoPath)
	if err != nil {
		log.Fatalf("OpenFile: %v", err)
	}
	defer img.Close()

	vol := img.Volume()
	fmt.Printf("label=%q system=%q blockSize=%d volumeSpace=%d\n", vol.VolumeIdentifier, vol.SystemIdentifier, vol.LogicalBlockSize, vol.VolumeSpaceSize)
	printHeader("root", vol.Root)

	entry, err := img.Lookup(*dirPath)
	if err != nil {
		fmt.Printf("Lookup(%s) err: %v\n", *dirPath, err)
		return
	}
	dir, ok := entry.(*iso9660.Directory)
	if !ok {
		fmt.Printf("%s is a file\n", *dirPath)
		printHeader(entry.Name(), entry.Header())
		return
	}

	entries, err := dir.Contents()
	if err != nil {
		fmt.Printf("Contents(%s) err: %v\n", *dirPath, err)
		return
	}
	fmt.Printf("%s entries (%d):\n", *dirPath, len(entries))
	for _, e := range entries {
		printHeader(fmt.Sprintf("%q", e.Identifier()), e.Header())
		f, ok := e.(*iso9660.File)
		if !ok || *head <= 0 {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			fmt.Printf("    open err: %v\n", err)
			continue
		}
		buf := make([]byte, *head)
		n, rerr := io.ReadFull(rc, buf)
		_ = rc.Close()
		if rerr != nil && n == 0 && f.Size() > 0 {
			fmt.Printf("    read err: %v\n", rerr)
			continue
		}
		fmt.Printf("    head=%q\n", buf[:n])
	}
}

func printHeader(name string, h iso9660.Header) {
	fmt.Printf("- %s len=%d ext=%d lba=%d size=%d flags=%#02x unit=%d gap=%d seq=%d idlen=%d recorded=%s\n",
		name, h.Length, h.ExtAttrLength, h.ExtentLoc, h.ExtentLength, uint8(h.Flags),
		h.FileUnitSize, h.InterleaveGap, h.VolumeSequence, h.IdentifierLen, h.Recorded)
}
