package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

var fsLog = logging.Get("adapter")

// FilesystemAdapter pairs files across an expected directory and a
// generated directory (and optionally an input directory) by basename.
type FilesystemAdapter struct {
	ExpectedDir    string
	GeneratedDir   string
	InputDir       string
	MaxReadBytes   int64
}

// Load implements Adapter.
func (a *FilesystemAdapter) Load() ([]model.CodePair, error) {
	if a.ExpectedDir == "" || a.GeneratedDir == "" {
		return nil, apperrors.New(apperrors.NotConfigured, "expected_dir and generated_dir must be set")
	}

	expectedFiles, err := listFiles(a.ExpectedDir)
	if err != nil {
		return nil, err
	}
	generatedFiles, err := listFiles(a.GeneratedDir)
	if err != nil {
		return nil, err
	}

	var inputFiles map[string]string
	if a.InputDir != "" {
		inputFiles, err = listFiles(a.InputDir)
		if err != nil {
			return nil, err
		}
	}

	if len(expectedFiles) == 0 || len(generatedFiles) == 0 {
		return nil, apperrors.New(apperrors.NoPairsFound, "no files found to pair")
	}

	var identifiers []string
	for id := range expectedFiles {
		if _, ok := generatedFiles[id]; ok {
			identifiers = append(identifiers, id)
		}
	}
	if len(identifiers) == 0 {
		return nil, apperrors.New(apperrors.NoPairsFound, "no matching basenames between expected and generated directories")
	}
	sort.Strings(identifiers)

	maxBytes := a.MaxReadBytes
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}

	pairs := make([]model.CodePair, 0, len(identifiers))
	for _, id := range identifiers {
		expected, expectedFallback, err := readWithFallback(expectedFiles[id], maxBytes)
		if err != nil {
			return nil, err
		}
		generated, generatedFallback, err := readWithFallback(generatedFiles[id], maxBytes)
		if err != nil {
			return nil, err
		}
		var input string
		var inputFallback bool
		if path, ok := inputFiles[id]; ok {
			input, inputFallback, err = readWithFallback(path, maxBytes)
			if err != nil {
				return nil, err
			}
		}

		sourceInfo := map[string]string{model.SourceInfoPath: expectedFiles[id]}
		if expectedFallback || generatedFallback || inputFallback {
			// §4.1: never fail silently on a Latin-1 decode fallback —
			// annotate the pair so the reviewer can see it was not clean
			// UTF-8 source.
			sourceInfo[model.SourceInfoEncodingFallback] = "true"
		}

		pairs = append(pairs, model.CodePair{
			Identifier: id,
			Expected:   expected,
			Generated:  generated,
			Input:      input,
			SourceInfo: sourceInfo,
		})
	}

	fsLog.Info("loaded %d filesystem pairs from %s / %s", len(pairs), a.ExpectedDir, a.GeneratedDir)
	return pairs, nil
}

// listFiles maps basename (without extension) to full path for the
// non-directory entries directly inside dir. Two files in the same
// directory sharing a basename after extension-stripping are ambiguous.
func listFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ReadFailed, "could not list directory "+dir, err)
	}

	files := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if existing, ok := files[id]; ok {
			return nil, apperrors.New(apperrors.AmbiguousIdentifiers,
				"multiple files share identifier \""+id+"\": "+existing+" and "+filepath.Join(dir, name))
		}
		files[id] = filepath.Join(dir, name)
	}
	return files, nil
}

// readWithFallback reads a file as UTF-8, retrying as Latin-1 if the bytes
// are not valid UTF-8 — generated code artifacts are not guaranteed to be
// UTF-8 encoded. The fallback bool reports whether the Latin-1 path was
// taken, so the caller can annotate the pair's SourceInfo instead of only
// logging it (§4.1: never fail silently).
func readWithFallback(path string, maxBytes int64) (content string, fallback bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.ReadFailed, "could not stat "+path, err)
	}
	if info.Size() > maxBytes {
		return "", false, apperrors.New(apperrors.ReadFailed, "file exceeds max_file_read_bytes: "+path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", false, apperrors.Wrap(apperrors.PermissionDenied, "permission denied reading "+path, err)
		}
		return "", false, apperrors.Wrap(apperrors.ReadFailed, "could not read "+path, err)
	}

	if utf8.Valid(raw) {
		return string(raw), false, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.ReadFailed, "could not decode "+path+" as UTF-8 or Latin-1", err)
	}
	fsLog.Warn("decoded %s as Latin-1 fallback", path)
	return string(decoded), true, nil
}
