// Package datfile renders the revision ledger as a Logiqx ROM-management
// DAT so standard verification tools can audit a packaged collection.
package datfile

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FlashpointProject/bluezip/internal/ledger"
)

const doctype = `<!DOCTYPE datafile PUBLIC "-//Logiqx//DTD ROM Management Datafile//EN" "http://www.logiqx.com/Dats/datafile.dtd">`

// Ledger is the read surface the export needs.
type Ledger interface {
	Games(ctx context.Context) ([]*ledger.Game, error)
	Manifest(ctx context.Context, sha string) ([]ledger.FileEntry, error)
}

type datafile struct {
	XMLName xml.Name `xml:"datafile"`
	Header  header   `xml:"header"`
	Games   []game   `xml:"game"`
}

type header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Author      string `xml:"author"`
	Homepage    string `xml:"homepage"`
	URL         string `xml:"url"`
}

type game struct {
	Name        string `xml:"name,attr"`
	Description string `xml:"description"`
	ROMs        []rom  `xml:"rom"`
}

type rom struct {
	Name   string `xml:"name,attr"`
	Size   int64  `xml:"size,attr"`
	CRC    string `xml:"crc,attr"`
	MD5    string `xml:"md5,attr"`
	SHA1   string `xml:"sha1,attr"`
	Status string `xml:"status,attr"`
}

// Export writes a DAT covering every ledger revision to w.
func Export(ctx context.Context, store Ledger, w io.Writer) error {
	games, err := store.Games(ctx)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}

	doc := datafile{
		Header: header{
			Name:        "BlueMaxima's Flashpoint",
			Description: "BlueMaxima's Flashpoint",
			Author:      "Flashpoint contributors",
			Homepage:    "BlueMaxima's Flashpoint",
			URL:         "https://bluemaxima.org/flashpoint/",
		},
	}
	for _, g := range games {
		manifest, err := store.Manifest(ctx, g.SHA256)
		if err != nil {
			return fmt.Errorf("manifest for %s: %w", g.ID, err)
		}
		entry := game{Name: g.ID, Description: g.Title}
		for _, f := range manifest {
			entry.ROMs = append(entry.ROMs, rom{
				Name:   f.Path,
				Size:   f.Size,
				CRC:    fmt.Sprintf("%X", f.CRC32),
				MD5:    strings.ToUpper(f.MD5),
				SHA1:   strings.ToUpper(f.SHA1),
				Status: "verified",
			})
		}
		doc.Games = append(doc.Games, entry)
	}

	if _, err := io.WriteString(w, xml.Header+doctype+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode datafile: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// ExportFile writes the DAT to path, replacing any existing file.
func ExportFile(ctx context.Context, store Ledger, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dat file: %w", err)
	}
	if err := Export(ctx, store, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
