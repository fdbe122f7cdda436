package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// pack zips projectPath into archivePath with every entry under "<project>/".
// The archive is written to a temp file in the output directory and renamed
// into place, so a failed build never leaves a partial archive behind.
func (a *Artifactizer) pack(ctx context.Context, projectPath, project, archivePath string, modified time.Time) (size int64, sum string, err error) {
	outputDir := filepath.Dir(archivePath)
	if err := fsutil.EnsureDir(outputDir); err != nil {
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "output directory %s: %v", outputDir, err)
	}

	files, err := fsutil.ListFiles(projectPath, a.excludes)
	if err != nil {
		return 0, "", errors.Wrap(errors.ErrPackagingFailed, err.Error())
	}

	tmp, err := os.CreateTemp(outputDir, "."+filepath.Base(archivePath)+".*.tmp")
	if err != nil {
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "create temp archive: %v", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = writeZip(ctx, tmp, projectPath, project, files, modified); err != nil {
		_ = tmp.Close()
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "write archive: %v", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "sync archive: %v", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "close archive: %v", err)
	}
	if err = os.Rename(tmpPath, archivePath); err != nil {
		return 0, "", errors.Wrapf(errors.ErrPackagingFailed, "rename archive: %v", err)
	}

	if size, err = fsutil.Size(archivePath); err != nil {
		return 0, "", errors.Wrap(errors.ErrPackagingFailed, err.Error())
	}
	if sum, err = fsutil.Checksum(archivePath); err != nil {
		return 0, "", errors.Wrap(errors.ErrPackagingFailed, err.Error())
	}
	return size, sum, nil
}

func writeZip(ctx context.Context, w io.Writer, projectPath, project string, files []string, modified time.Time) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return err
		}
		if err := addFile(zw, filepath.Join(projectPath, filepath.FromSlash(rel)), path.Join(project, rel), modified); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, src, name string, modified time.Time) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	header.Name = name
	header.Method = zip.Deflate
	header.Modified = modified

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	f, err := os.Open(src) //#nosec G304 -- src comes from a walk of the project directory
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
