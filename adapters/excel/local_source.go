package excel

import (
	"context"
	"time"

	"revkit/domain/sheetset"
	"revkit/ports"
)

// LocalSource is a VintageSource over workbooks already on disk, used when
// reprocessing a downloaded release without touching the publisher.
type LocalSource struct {
	paths  []string
	reader *WorkbookReader
}

func NewLocalSource(paths ...string) *LocalSource {
	return &LocalSource{paths: paths, reader: NewWorkbookReader()}
}

var _ ports.VintageSource = (*LocalSource)(nil)

func (s *LocalSource) Fetch(ctx context.Context) (*sheetset.SheetSet, ports.ReleaseInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ports.ReleaseInfo{}, err
	}
	set, err := s.reader.LoadFiles(s.paths)
	if err != nil {
		return nil, ports.ReleaseInfo{}, err
	}
	return set, ports.ReleaseInfo{Label: "local", FetchedAt: time.Now().UTC()}, nil
}
