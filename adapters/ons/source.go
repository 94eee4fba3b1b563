package ons

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"revkit/adapters/excel"
	"revkit/domain/core"
	"revkit/domain/sheetset"
	"revkit/internal"
	apperrors "revkit/internal/errors"
	"revkit/ports"
)

// The publisher's landing page links the current release as a /file?uri=...
// download; the release quarter and year are embedded in that URL.
var (
	releaseLinkPattern = regexp.MustCompile(`<a href="(/file\?uri=[^"]*?)"`)
	quarterPattern     = regexp.MustCompile(`quarter(\d)`)
	yearPattern        = regexp.MustCompile(`(\d{4})`)
)

// Source resolves a publisher landing page to the current release, downloads
// it and lifts the contained workbooks into a SheetSet. Connectivity and
// archive-shape failures surface here, never inside the core.
type Source struct {
	client       *http.Client
	landingURL   string
	expectedFile string // workbook that must exist in the release, "" to skip the check
	userAgent    string
	reader       *excel.WorkbookReader
	logger       *internal.Logger
}

var _ ports.VintageSource = (*Source)(nil)

func NewSource(landingURL, expectedFile string, timeout time.Duration, userAgent string, logger *internal.Logger) *Source {
	return &Source{
		client:       &http.Client{Timeout: timeout},
		landingURL:   landingURL,
		expectedFile: expectedFile,
		userAgent:    userAgent,
		reader:       excel.NewWorkbookReader(),
		logger:       logger.With("ONSSource"),
	}
}

// Fetch downloads the latest release behind the landing page.
func (s *Source) Fetch(ctx context.Context) (*sheetset.SheetSet, ports.ReleaseInfo, error) {
	var info ports.ReleaseInfo

	s.logger.Info("Resolving latest release from %s", s.landingURL)
	page, err := s.get(ctx, s.landingURL)
	if err != nil {
		return nil, info, apperrors.FetchFailed(err, "landing page fetch failed")
	}

	match := releaseLinkPattern.FindSubmatch(page)
	if match == nil {
		err := fmt.Errorf("%w: %s", core.ErrReleaseNotFound, s.landingURL)
		return nil, info, apperrors.FetchFailed(err, "release discovery failed")
	}
	link := string(match[1])
	downloadURL, err := s.absoluteURL(link)
	if err != nil {
		return nil, info, apperrors.FetchFailed(err, "release link is not a valid URL")
	}

	info.URL = downloadURL
	// The label comes from the link path; the absolute URL would add host
	// digits the year pattern could latch onto.
	info.Label = releaseLabel(link)
	info.FetchedAt = time.Now().UTC()
	s.logger.Info("Found release %s at %s", info.Label, downloadURL)

	body, err := s.get(ctx, downloadURL)
	if err != nil {
		return nil, info, apperrors.FetchFailed(err, "release download failed")
	}

	set, err := s.unpack(downloadURL, body)
	if err != nil {
		return nil, info, apperrors.FetchFailed(err, "release unpack failed")
	}
	return set, info, nil
}

func (s *Source) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", core.ErrBadStatus, resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

// unpack accepts either a zip of workbooks or a single bare workbook.
func (s *Source) unpack(downloadURL string, body []byte) (*sheetset.SheetSet, error) {
	set := sheetset.New()

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil || isWorkbook(zr) {
		// Not a release archive: the payload is one bare workbook. A .xlsx
		// file is itself a zip, so "opens as zip" alone does not decide.
		name := path.Base(downloadURL)
		if err := s.reader.ReadWorkbookBytes(set, name, body); err != nil {
			return nil, err
		}
		return set, nil
	}

	found := false
	for _, member := range zr.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), ".xlsx") {
			continue
		}
		if member.Name == s.expectedFile {
			found = true
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in release archive: %w", member.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", member.Name, err)
		}
		if err := s.reader.ReadWorkbookBytes(set, member.Name, data); err != nil {
			return nil, err
		}
	}

	if s.expectedFile != "" && !found {
		return nil, fmt.Errorf("%w: %s", core.ErrFileNotInRelease, s.expectedFile)
	}
	return set, nil
}

// isWorkbook reports whether the zip is an Office document rather than a
// release archive of workbooks.
func isWorkbook(zr *zip.Reader) bool {
	if zr == nil {
		return false
	}
	for _, member := range zr.File {
		if member.Name == "[Content_Types].xml" {
			return true
		}
	}
	return false
}

func (s *Source) absoluteURL(link string) (string, error) {
	base, err := url.Parse(s.landingURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.ReplaceAll(link, "&amp;", "&"))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func releaseLabel(link string) string {
	quarter := quarterPattern.FindStringSubmatch(link)
	year := yearPattern.FindStringSubmatch(link)
	if quarter == nil || year == nil {
		return ""
	}
	return "Q" + quarter[1] + " " + year[1]
}
