// Package export bundles every scaffold-managed artifact in the repository
// into a tar archive compressed with zstd. The archive is what gets attached
// to a review or uploaded by CI so drift can be inspected away from the
// working tree. Files are identified as managed purely by their leading
// header; file extensions and locations are irrelevant.
package export

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"loom/internal/logging"
	"loom/internal/paths"
	"loom/internal/scaffold"
)

// skipDirs are directory names never descended into during the scan
var skipDirs = map[string]bool{
	".git":         true,
	".loom":        true,
	"node_modules": true,
	"vendor":       true,
}

// headerProbeSize is how many leading bytes are inspected when deciding
// whether a file is scaffold-managed. Headers are two short lines; 4KB is
// generous.
const headerProbeSize = 4096

// Options controls an export run.
type Options struct {
	// OutputDir is where the archive is written, relative to the repo root
	OutputDir string

	// CompressionLevel is one of fastest, default, better, best
	CompressionLevel string

	// Now overrides the timestamp used in the archive name (tests)
	Now time.Time
}

// Summary describes a produced archive.
type Summary struct {
	ArchivePath string
	Files       []string
	Bytes       int64
}

// Exporter scans a repository for managed artifacts and archives them.
type Exporter struct {
	repoRoot string
	logger   *logging.Logger
}

// NewExporter creates a new exporter
func NewExporter(repoRoot string, logger *logging.Logger) *Exporter {
	return &Exporter{
		repoRoot: repoRoot,
		logger:   logger,
	}
}

// Export scans the repository and writes the archive. An empty repository
// produces an archive with no entries, not an error.
func (e *Exporter) Export(opts Options) (*Summary, error) {
	managed, err := e.collectManaged()
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	outDir := paths.Join(e.repoRoot, opts.OutputDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	archivePath := filepath.Join(outDir, fmt.Sprintf("loom-export-%s.tar.zst", now.Format("20060102-150405")))
	f, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(encoderLevel(opts.CompressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	var total int64
	for _, rel := range managed {
		n, err := e.addFile(tw, rel)
		if err != nil {
			_ = tw.Close()
			_ = zw.Close()
			return nil, err
		}
		total += n
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("finalize tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zstd stream: %w", err)
	}

	e.logger.Info("Export complete", map[string]interface{}{
		"archive": archivePath,
		"files":   len(managed),
	})

	return &Summary{
		ArchivePath: archivePath,
		Files:       managed,
		Bytes:       total,
	}, nil
}

// collectManaged walks the repo and returns repo-relative paths of every
// file whose leading bytes parse as a scaffold header, sorted for stable
// archive layout.
func (e *Exporter) collectManaged() ([]string, error) {
	var managed []string

	err := filepath.WalkDir(e.repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != e.repoRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ok, probeErr := isManaged(path)
		if probeErr != nil {
			return probeErr
		}
		if !ok {
			return nil
		}

		rel, relErr := paths.Canonicalize(path, e.repoRoot)
		if relErr != nil {
			return relErr
		}
		managed = append(managed, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan repository: %w", err)
	}

	sort.Strings(managed)
	return managed, nil
}

// isManaged reports whether the file starts with a parseable scaffold header.
func isManaged(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, headerProbeSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	_, ok := scaffold.ParseHeader(string(buf[:n]))
	return ok, nil
}

func (e *Exporter) addFile(tw *tar.Writer, rel string) (int64, error) {
	absPath := paths.Join(e.repoRoot, rel)
	info, err := os.Stat(absPath)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", rel, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return 0, fmt.Errorf("tar header for %s: %w", rel, err)
	}
	hdr.Name = rel

	if err := tw.WriteHeader(hdr); err != nil {
		return 0, fmt.Errorf("write tar header for %s: %w", rel, err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", rel, err)
	}
	defer f.Close()

	n, err := io.Copy(tw, f)
	if err != nil {
		return 0, fmt.Errorf("archive %s: %w", rel, err)
	}
	return n, nil
}

func encoderLevel(name string) zstd.EncoderLevel {
	switch name {
	case "fastest":
		return zstd.SpeedFastest
	case "better":
		return zstd.SpeedBetterCompression
	case "best":
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
